package monitor

import "time"

// Assembler builds one SystemSnapshot per call from a Reader and a
// DeltaEngine. Families are read in a fixed order: cpu, memory, disk,
// network, battery, gpu, info.
type Assembler struct {
	reader Reader
	engine *DeltaEngine
	now    func() time.Time
}

func NewAssembler(reader Reader, engine *DeltaEngine) *Assembler {
	if engine == nil {
		engine = NewDeltaEngine()
	}
	return &Assembler{
		reader: reader,
		engine: engine,
		now:    time.Now,
	}
}

// Collect performs one full poll. The returned snapshot is never modified
// afterwards.
func (a *Assembler) Collect() *SystemSnapshot {
	cpu := a.engine.CPU(a.reader.ReadCPU())
	ram := a.reader.ReadMemory()
	disk := a.reader.ReadDisk()
	network := a.engine.Network(a.reader.ReadNetwork())
	battery := a.reader.ReadBattery()
	gpu := a.reader.ReadGPU()
	info := a.reader.ReadSystemInfo()

	if !battery.HasBattery {
		battery = BatteryMetrics{}
	}
	if !gpu.Available {
		gpu = GPUMetrics{}
	}

	return &SystemSnapshot{
		CPU:       cpu,
		RAM:       ram,
		Disk:      disk,
		Network:   network,
		Battery:   battery,
		GPU:       gpu,
		Info:      info,
		Timestamp: a.now(),
	}
}
