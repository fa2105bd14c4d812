package transform

import "github.com/Faultbox/physical-layout/pkg/record"

// DecodeRanges reads a ranges record. Keys may carry a _deg suffix on the
// rotation bounds. Absent keys keep DefaultRanges values.
func DecodeRanges(r record.Record) (Ranges, error) {
	out := DefaultRanges()
	fields := []struct {
		dst  *float32
		keys []string
	}{
		{&out.RotXMin, []string{"rot_x_min", "rot_x_min_deg"}},
		{&out.RotXMax, []string{"rot_x_max", "rot_x_max_deg"}},
		{&out.RotYMin, []string{"rot_y_min", "rot_y_min_deg"}},
		{&out.RotYMax, []string{"rot_y_max", "rot_y_max_deg"}},
		{&out.RotZMin, []string{"rot_z_min", "rot_z_min_deg"}},
		{&out.RotZMax, []string{"rot_z_max", "rot_z_max_deg"}},
		{&out.ScaleMin, []string{"scale_min"}},
		{&out.ScaleMax, []string{"scale_max"}},
	}
	for _, f := range fields {
		v, ok, err := record.Float32(r, f.keys...)
		if err != nil {
			return Ranges{}, err
		}
		if ok {
			*f.dst = v
		}
	}
	return out, nil
}

// Record returns the sample as a boundary record.
func (s Sample) Record() record.Record {
	return record.Record{
		"rotation_euler_rad": []float32{s.RotationEulerRad[0], s.RotationEulerRad[1], s.RotationEulerRad[2]},
		"scale_uniform":      s.ScaleUniform,
	}
}
