package scheduler

import "github.com/sarchlab/procsched/sim"

// Hook positions invoked by the Engine. The hook item is a copy of the
// process taken right after the transition.
var (
	HookPosAdmit     = &sim.HookPos{Name: "Admit"}
	HookPosServe     = &sim.HookPos{Name: "Serve"}
	HookPosBlock     = &sim.HookPos{Name: "Block"}
	HookPosUnblock   = &sim.HookPos{Name: "Unblock"}
	HookPosTerminate = &sim.HookPos{Name: "Terminate"}
)
