package installer

import "time"

// SetSleep replaces the backoff sleep so tests can observe retry delays
// without waiting for them.
func (i *Installer) SetSleep(fn func(time.Duration)) {
	i.sleep = fn
}
