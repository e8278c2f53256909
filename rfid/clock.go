package rfid

import "time"

// Clock supplies the monotonic time source used for transaction
// deadlines. Tests substitute a fake so timeout paths run instantly.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
