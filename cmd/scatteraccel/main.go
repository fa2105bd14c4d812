// scatteraccel builds the scatter core as a C shared library:
//
//	go build -buildmode=c-shared -o native/scatter_accel.so ./cmd/scatteraccel
//
// Numeric calls take caller-allocated output arrays and return a status code
// (see accel.Status). Record calls take and return YAML documents (JSON input
// is accepted); returned strings must be released with scatter_free_string.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/Faultbox/physical-layout/internal/scenefile"
	"github.com/Faultbox/physical-layout/pkg/accel"
	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/record"
	"github.com/Faultbox/physical-layout/pkg/scatter"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

// mu serializes access to core; foreign hosts may call from any thread.
var (
	mu   sync.Mutex
	core = accel.NewPure(nil, nil)
)

func main() {}

func floats(p *C.float, n C.int64_t) []float32 {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(p)), int(n))
}

func status(err error) C.int32_t {
	return C.int32_t(accel.StatusOf(err))
}

//export scatter_prepare_mesh
func scatter_prepare_mesh(pos *C.float, posLen C.int64_t, idx *C.int32_t, idxLen C.int64_t,
	numVertices, numTriangles C.int64_t, outPos *C.float, outIdx *C.uint32_t) C.int32_t {
	var indices []int32
	if idx != nil && idxLen > 0 {
		indices = unsafe.Slice((*int32)(unsafe.Pointer(idx)), int(idxLen))
	}

	mesh, err := geometry.PrepareFromFlatArrays(floats(pos, posLen), indices, int(numVertices), int(numTriangles))
	if err != nil {
		return status(err)
	}
	copy(floats(outPos, posLen), mesh.FlatPositions())
	if outIdx != nil && idxLen > 0 {
		copy(unsafe.Slice((*uint32)(unsafe.Pointer(outIdx)), int(idxLen)), mesh.Indices)
	}
	return 0
}

// scatter_circle_marker fills (max(segments,3)+1)*3 floats and
// max(segments,3)*4 indices.
//
//export scatter_circle_marker
func scatter_circle_marker(radius C.float, segments C.int32_t, outPos *C.float, outIdx *C.uint32_t) C.int32_t {
	mesh := geometry.GenerateCircleWireframe(float32(radius), int(segments))
	flat := mesh.FlatPositions()
	copy(floats(outPos, C.int64_t(len(flat))), flat)
	if outIdx != nil {
		copy(unsafe.Slice((*uint32)(unsafe.Pointer(outIdx)), len(mesh.Indices)), mesh.Indices)
	}
	return 0
}

//export scatter_seed
func scatter_seed(seed C.uint64_t) {
	mu.Lock()
	defer mu.Unlock()
	core.Reseed(uint64(seed))
}

//export scatter_free_string
func scatter_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func reply(v any) *C.char {
	data, err := scenefile.Marshal(v)
	if err != nil {
		data, _ = scenefile.Marshal(map[string]string{"error": err.Error()})
	}
	return C.CString(string(data))
}

func replyError(err error) *C.char {
	return reply(map[string]any{"error": err.Error(), "status": int32(accel.StatusOf(err))})
}

func decodeRecord(s *C.char) (record.Record, error) {
	return scenefile.DecodeRecord([]byte(C.GoString(s)), scenefile.YAML)
}

//export scatter_random_transform
func scatter_random_transform(ranges *C.char) *C.char {
	r, err := decodeRecord(ranges)
	if err != nil {
		return replyError(err)
	}
	rng, err := transform.DecodeRanges(r)
	if err != nil {
		return replyError(err)
	}
	mu.Lock()
	defer mu.Unlock()
	return reply(core.RandomTransform(rng).Record())
}

//export scatter_analyze_single
func scatter_analyze_single(candidate, config *C.char) *C.char {
	cr, err := decodeRecord(candidate)
	if err != nil {
		return replyError(err)
	}
	c, err := scatter.DecodeCandidate(cr)
	if err != nil {
		return replyError(err)
	}
	cfg, err := decodeConfig(config)
	if err != nil {
		return replyError(err)
	}
	return reply(scatter.AnalyzeSingle(c, cfg).Record())
}

//export scatter_analyze_batch
func scatter_analyze_batch(candidates, config *C.char) *C.char {
	rs, err := scenefile.DecodeRecords([]byte(C.GoString(candidates)))
	if err != nil {
		return replyError(err)
	}
	cs, err := scatter.DecodeCandidates(rs)
	if err != nil {
		return replyError(err)
	}
	cfg, err := decodeConfig(config)
	if err != nil {
		return replyError(err)
	}
	return reply(scatter.Records(scatter.AnalyzeBatch(cs, cfg)))
}

// scatter_analyze_static_bake takes a scene document (objects and meshes)
// and bakes the named objects, all of them when names is empty.
//
//export scatter_analyze_static_bake
func scatter_analyze_static_bake(scene, names, target *C.char) *C.char {
	f, err := scenefile.Decode([]byte(C.GoString(scene)), scenefile.YAML)
	if err != nil {
		return replyError(err)
	}
	list, err := scenefile.DecodeStrings([]byte(C.GoString(names)))
	if err != nil {
		return replyError(err)
	}
	s := f.Scene()
	if len(list) == 0 {
		for _, obj := range s.Objects() {
			list = append(list, obj.Name)
		}
	}
	return reply(scatter.Records(scatter.AnalyzeStaticBake(list, C.GoString(target), s)))
}

func decodeConfig(s *C.char) (scatter.ProcessingConfig, error) {
	r, err := decodeRecord(s)
	if err != nil {
		return scatter.ProcessingConfig{}, err
	}
	return scatter.DecodeConfig(r)
}
