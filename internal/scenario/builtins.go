package scenario

// RegisterBuiltins installs every scenario type that ships with the harness.
func RegisterBuiltins(reg *Registry) {
	reg.MustRegister(ParkingExitID, NewParkingExit)
}
