package metrics

// SystemSnapshot holds one tick's worth of host-level metrics.
// A fresh snapshot is built every tick and never mutated afterwards.
type SystemSnapshot struct {
	CPUPercent    float64
	MemPercent    float64
	DiskPercent   float64
	NetSentRate   float64 // bytes/sec since the previous snapshot
	NetRecvRate   float64 // bytes/sec since the previous snapshot
	UptimeSeconds int64
	Hostname      string
}

// ProcessInfo describes a single process at enumeration time.
// Snapshots carry no identity across ticks; the list is rebuilt each cycle.
type ProcessInfo struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float64
}

// PartitionUsage is one row of the disk preview table.
type PartitionUsage struct {
	Device      string
	Mountpoint  string
	Fstype      string
	UsedPercent float64
}
