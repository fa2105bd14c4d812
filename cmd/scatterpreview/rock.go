package main

// A low pyramid standing in for a scattered rock. The base sits below the
// pivot so landing has something to correct.
var (
	rockPositions = []float32{
		-0.2, -0.2, -0.05,
		0.2, -0.2, -0.05,
		0.2, 0.2, -0.05,
		-0.2, 0.2, -0.05,
		0, 0, 0.25,
	}
	rockUVs = []float32{
		0, 0,
		1, 0,
		1, 1,
		0, 1,
		0.5, 0.5,
	}
	rockIndices = []int32{
		0, 2, 1,
		0, 3, 2,
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
	}
)
