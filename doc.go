// Package pocketguard guards a phone against accidental pocket actions.
//
// It fuses proximity and light samples into a "device is in a pocket" signal,
// arbitrates outgoing calls reported by several redundant platform hooks, and
// asks the user to confirm an intercepted call (or unlock the screen) with a
// slide gesture. The host application forwards platform callbacks to the
// high-level Service exposed by this package:
//
//	srv, _ := pocketguard.New(pocketguard.WithConfig(cfg))
//	_ = srv.Start(ctx)
//	srv.OnSample(ctx, model.Sample{Kind: model.SensorProximity, Value: 0, MaxRange: 5})
//	number := srv.Coordinator().Broadcast(ctx, "5551234")
//
// For more details see the individual sub-packages.
package pocketguard
