package sim

import "fmt"

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// String formats the time with the precision used by the views.
func (t VTimeInSec) String() string {
	return fmt.Sprintf("%.2f", float64(t))
}
