//go:build cuda

// Package wrapper provides GPU-accelerated vanity address search.
package wrapper

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"ethvanity/gpu/basepoints"
	"ethvanity/internal/kernel"
)

// configSize and its field offsets mirror the search_config_t layout:
// little-endian scalars, explicit pads, base_entropy first.
const (
	configSize           = 96
	offsetBaseEntropy    = 0
	offsetNumThreads     = 32
	offsetCondition      = 40
	offsetCheckInterval  = 48
	offsetPatternMask    = 56
	offsetPatternValue   = 76
)

const (
	resultSize          = 4 + 32 + 20 + 4
	offsetResultFound   = 0
	offsetResultEntropy = 4
	offsetResultAddress = 36
	offsetResultThread  = 56
)

// SearchKernel manages the GPU search kernel and the device memory it
// reads and writes across a run.
type SearchKernel struct {
	device *Device
	module *Module
	kernel *Function

	basepointsX *DeviceMemory
	basepointsY *DeviceMemory

	config    *DeviceMemory
	result    *DeviceMemory
	foundFlag *DeviceMemory
	counters  *DeviceMemory

	numThreads uint32
}

// SearchConfig configures the search kernel before a run.
type SearchConfig struct {
	PTXPath          string // path to the compiled search kernel PTX
	BasepointsXPath  string // path to basepoints_x.bin
	BasepointsYPath  string // path to basepoints_y.bin
}

// NewSearchKernel loads the PTX module and the base-point table, leaving
// the per-run config/result/counter buffers unallocated until Run.
func NewSearchKernel(device *Device, cfg SearchConfig) (*SearchKernel, error) {
	if err := device.SetCurrent(); err != nil {
		return nil, fmt.Errorf("failed to set context: %w", err)
	}

	ptx, err := os.ReadFile(cfg.PTXPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PTX: %w", err)
	}

	module, err := LoadModule(string(ptx))
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}

	fn, err := module.GetFunction("search_kernel")
	if err != nil {
		return nil, fmt.Errorf("failed to get kernel: %w", err)
	}

	sk := &SearchKernel{device: device, module: module, kernel: fn}

	if err := sk.loadBasepoints(cfg.BasepointsXPath, cfg.BasepointsYPath); err != nil {
		return nil, fmt.Errorf("failed to load base-point table: %w", err)
	}

	return sk, nil
}

func (sk *SearchKernel) loadBasepoints(xPath, yPath string) error {
	table, err := basepoints.Load(xPath, yPath)
	if err != nil {
		return err
	}
	if err := table.Verify(); err != nil {
		return fmt.Errorf("table verification failed: %w", err)
	}

	size := uint64(len(table.X))

	sk.basepointsX, err = sk.device.Alloc(size)
	if err != nil {
		return err
	}
	sk.basepointsY, err = sk.device.Alloc(size)
	if err != nil {
		sk.basepointsX.Free()
		return err
	}

	if err := sk.basepointsX.CopyFromHost(table.X); err != nil {
		return err
	}
	if err := sk.basepointsY.CopyFromHost(table.Y); err != nil {
		return err
	}
	return nil
}

// RunParams is the host-side form of search_config_t, with the optional
// pattern mask/value left zeroed when HasPattern is false.
type RunParams struct {
	BaseEntropy   kernel.Entropy
	NumThreads    uint32
	Condition     uint64
	CheckInterval uint32
	PatternMask   [20]byte
	PatternValue  [20]byte
}

// RunResult is the host-side form of search_result_t plus the rolled-up
// per-thread counters.
type RunResult struct {
	Found         bool
	Entropy       kernel.Entropy
	Address       [20]byte
	FoundByThread uint32
	Counters      []uint64
}

func encodeConfig(p RunParams) []byte {
	buf := make([]byte, configSize)
	copy(buf[offsetBaseEntropy:], p.BaseEntropy[:])
	binary.LittleEndian.PutUint32(buf[offsetNumThreads:], p.NumThreads)
	binary.LittleEndian.PutUint64(buf[offsetCondition:], p.Condition)
	binary.LittleEndian.PutUint32(buf[offsetCheckInterval:], p.CheckInterval)
	copy(buf[offsetPatternMask:], p.PatternMask[:])
	copy(buf[offsetPatternValue:], p.PatternValue[:])
	return buf
}

func decodeResult(buf []byte, numThreads uint32, counterBuf []byte) RunResult {
	var r RunResult
	r.Found = int32(binary.LittleEndian.Uint32(buf[offsetResultFound:])) != 0
	copy(r.Entropy[:], buf[offsetResultEntropy:offsetResultEntropy+32])
	copy(r.Address[:], buf[offsetResultAddress:offsetResultAddress+20])
	r.FoundByThread = binary.LittleEndian.Uint32(buf[offsetResultThread:])

	r.Counters = make([]uint64, numThreads)
	for i := range r.Counters {
		r.Counters[i] = binary.LittleEndian.Uint64(counterBuf[i*8:])
	}
	return r
}

// Run uploads the search configuration, launches the kernel over
// p.NumThreads work-items, and reads back the result record and
// per-thread counters once the kernel completes.
func (sk *SearchKernel) Run(p RunParams) (RunResult, error) {
	if err := sk.device.SetCurrent(); err != nil {
		return RunResult{}, fmt.Errorf("failed to set context: %w", err)
	}

	if err := sk.allocateRunBuffers(p.NumThreads); err != nil {
		return RunResult{}, fmt.Errorf("failed to allocate run buffers: %w", err)
	}
	defer sk.freeRunBuffers()

	if err := sk.config.CopyFromHost(encodeConfig(p)); err != nil {
		return RunResult{}, fmt.Errorf("failed to copy config: %w", err)
	}

	zeroResult := make([]byte, resultSize)
	if err := sk.result.CopyFromHost(zeroResult); err != nil {
		return RunResult{}, fmt.Errorf("failed to clear result: %w", err)
	}

	zeroFlag := make([]byte, 4)
	if err := sk.foundFlag.CopyFromHost(zeroFlag); err != nil {
		return RunResult{}, fmt.Errorf("failed to clear found flag: %w", err)
	}

	zeroCounters := make([]byte, int(p.NumThreads)*8)
	if err := sk.counters.CopyFromHost(zeroCounters); err != nil {
		return RunResult{}, fmt.Errorf("failed to clear counters: %w", err)
	}

	const blockSize = 256
	gridSize := (p.NumThreads + blockSize - 1) / blockSize

	configPtr := sk.config.Ptr()
	resultPtr := sk.result.Ptr()
	foundFlagPtr := sk.foundFlag.Ptr()
	countersPtr := sk.counters.Ptr()
	basepointsXPtr := sk.basepointsX.Ptr()
	basepointsYPtr := sk.basepointsY.Ptr()

	params := []unsafe.Pointer{
		unsafe.Pointer(&configPtr),
		unsafe.Pointer(&resultPtr),
		unsafe.Pointer(&foundFlagPtr),
		unsafe.Pointer(&countersPtr),
		unsafe.Pointer(&basepointsXPtr),
		unsafe.Pointer(&basepointsYPtr),
	}

	if err := sk.kernel.Launch(gridSize, 1, 1, blockSize, 1, 1, 0, params); err != nil {
		return RunResult{}, fmt.Errorf("kernel launch failed: %w", err)
	}

	if err := sk.device.Synchronize(); err != nil {
		return RunResult{}, fmt.Errorf("synchronize failed: %w", err)
	}

	resultBuf := make([]byte, resultSize)
	if err := sk.result.CopyToHost(resultBuf); err != nil {
		return RunResult{}, fmt.Errorf("failed to copy result: %w", err)
	}

	counterBuf := make([]byte, int(p.NumThreads)*8)
	if err := sk.counters.CopyToHost(counterBuf); err != nil {
		return RunResult{}, fmt.Errorf("failed to copy counters: %w", err)
	}

	return decodeResult(resultBuf, p.NumThreads, counterBuf), nil
}

func (sk *SearchKernel) allocateRunBuffers(numThreads uint32) error {
	var err error
	sk.numThreads = numThreads

	sk.config, err = sk.device.Alloc(configSize)
	if err != nil {
		return err
	}
	sk.result, err = sk.device.Alloc(resultSize)
	if err != nil {
		return err
	}
	sk.foundFlag, err = sk.device.Alloc(4)
	if err != nil {
		return err
	}
	sk.counters, err = sk.device.Alloc(uint64(numThreads) * 8)
	if err != nil {
		return err
	}
	return nil
}

func (sk *SearchKernel) freeRunBuffers() {
	if sk.config != nil {
		sk.config.Free()
		sk.config = nil
	}
	if sk.result != nil {
		sk.result.Free()
		sk.result = nil
	}
	if sk.foundFlag != nil {
		sk.foundFlag.Free()
		sk.foundFlag = nil
	}
	if sk.counters != nil {
		sk.counters.Free()
		sk.counters = nil
	}
}

// Close releases the base-point table device memory. Per-run buffers are
// freed by Run itself.
func (sk *SearchKernel) Close() error {
	if sk.basepointsX != nil {
		sk.basepointsX.Free()
	}
	if sk.basepointsY != nil {
		sk.basepointsY.Free()
	}
	return nil
}
