// Package orrery is a real-time 3D solar-system scene engine for
// [Ebitengine].
//
// It builds a scene graph of orbiting bodies from a catalog, advances their
// orbital phase every display frame, renders them through a perspective
// camera with damped orbit controls, and tears everything down
// deterministically when the session is unmounted.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and runs
// the default catalog:
//
//	cfg, err := orrery.LoadConfig("orrery.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(orrery.Run(cfg))
//
// For full control, mount an engine on any [Host] yourself:
//
//	host := orrery.NewManualHost(1280, 720)
//	engine, err := orrery.Mount(ctx, orrery.MountConfig{Host: host})
//	if err != nil {
//		return err
//	}
//	defer engine.Teardown()
//	host.Step(16)
//
// # Scene graph
//
// Every element is a [Node] carrying one [Object] variant: [Group], [Mesh],
// [PointLight], [AmbientLight] or [AxesHelper]. Transforms are local to the
// parent, so a moon placed on its own orbit inside a planet follows the
// planet around the Sun.
//
// [BuildPlanets] turns a catalog of [CelestialBody] values into the
// "Planets" group. Every body node carries an [Orbit]; the Sun does not.
//
// # Frames
//
// The [Host] supplies a single-shot frame request primitive. Each
// [FrameLoop.Frame] computes the delta since the previous frame, calls
// [AdvanceOrbits], steps the controls, renders, and requests the next frame
// while the engine's [Lifecycle] is active.
//
// # Teardown
//
// [Engine.Stop] flips the lifecycle out of Active, withdraws the pending
// frame request and cancels the resize listener in one call.
// [Engine.Teardown] stops the engine, then releases every geometry,
// material, texture, light and helper reachable from the scene before
// disposing the controls and the renderer. Teardown is idempotent.
//
// [Ebitengine]: https://ebitengine.org
package orrery
