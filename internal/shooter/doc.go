// Package shooter fires a bullet repeatedly and records every shot.
//
// A Salvo starts one Gun per configured gun, each running its own firing
// loop on a goroutine:
//
//	s := shooter.NewSalvo(b,
//	    shooter.WithGuns(10),
//	    shooter.WithRepeat(100),
//	    shooter.WithDelay(50*time.Millisecond),
//	)
//	run, err := s.Run(ctx)
//
// Each shot yields a ShootResult with its timestamp, latency, status code and
// a one-line text summary. Guns share one HTTP client and, when a rate is
// set, one rate limiter; nothing else is shared between them.
package shooter
