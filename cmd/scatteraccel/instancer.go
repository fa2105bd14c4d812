package main

/*
#include <stdint.h>
*/
import "C"

import (
	"github.com/Faultbox/physical-layout/pkg/accel"
	"github.com/Faultbox/physical-layout/pkg/instancer"
)

// manager looks up h. Callers hold mu for as long as they use the result.
func manager(h C.uint64_t) (*instancer.Manager, error) {
	return core.Instancer(accel.Handle(h))
}

func matrix(p *C.float) (instancer.Matrix, error) {
	return instancer.MatrixFromSlice(floats(p, 16))
}

//export scatter_instancer_new
func scatter_instancer_new(shaderName *C.char) C.uint64_t {
	mu.Lock()
	defer mu.Unlock()
	return C.uint64_t(core.NewInstancer(C.GoString(shaderName), nil))
}

//export scatter_instancer_free
func scatter_instancer_free(h C.uint64_t) C.int32_t {
	mu.Lock()
	defer mu.Unlock()
	return status(core.ReleaseInstancer(accel.Handle(h)))
}

// add returns the new id, or the negated status on failure.
func add(h C.uint64_t, p *C.float, onGPU bool) C.int64_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return -C.int64_t(accel.StatusOf(err))
	}
	mat, err := matrix(p)
	if err != nil {
		return -C.int64_t(accel.StatusOf(err))
	}
	if !onGPU {
		return C.int64_t(m.AddInstance(mat))
	}
	id, err := m.AddInstanceOnGPU(mat)
	if err != nil {
		return -C.int64_t(accel.StatusOf(err))
	}
	return C.int64_t(id)
}

//export scatter_instancer_add
func scatter_instancer_add(h C.uint64_t, mat *C.float) C.int64_t {
	return add(h, mat, false)
}

//export scatter_instancer_add_on_gpu
func scatter_instancer_add_on_gpu(h C.uint64_t, mat *C.float) C.int64_t {
	return add(h, mat, true)
}

//export scatter_instancer_update_on_gpu
func scatter_instancer_update_on_gpu(h C.uint64_t, id C.int64_t, mat *C.float) C.int32_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return status(err)
	}
	mx, err := matrix(mat)
	if err != nil {
		return status(err)
	}
	return status(m.UpdateSingleInstanceOnGPU(int(id), mx))
}

//export scatter_instancer_upload
func scatter_instancer_upload(h C.uint64_t) C.int32_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return status(err)
	}
	return status(m.UploadTransforms())
}

//export scatter_instancer_count
func scatter_instancer_count(h C.uint64_t) C.int64_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return -C.int64_t(accel.StatusOf(err))
	}
	return C.int64_t(m.InstanceCount())
}

// scatter_instancer_matrices copies up to capacity matrices (16 floats each)
// into out and returns the instance count.
//
//export scatter_instancer_matrices
func scatter_instancer_matrices(h C.uint64_t, out *C.float, capacity C.int64_t) C.int64_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return -C.int64_t(accel.StatusOf(err))
	}
	all := m.AllInstanceMatrices()
	dst := floats(out, capacity*16)
	for i := 0; i < len(all) && (i+1)*16 <= len(dst); i++ {
		copy(dst[i*16:], all[i][:])
	}
	return C.int64_t(len(all))
}

//export scatter_instancer_set_ghost
func scatter_instancer_set_ghost(h C.uint64_t, enabled C.int32_t, id C.int64_t) C.int32_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return status(err)
	}
	m.SetGhostMode(enabled != 0, int(id))
	return 0
}

//export scatter_instancer_clear
func scatter_instancer_clear(h C.uint64_t) C.int32_t {
	mu.Lock()
	defer mu.Unlock()
	m, err := manager(h)
	if err != nil {
		return status(err)
	}
	return status(m.ClearInstances())
}
