package orrery

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// bodyTextures lists every texture the default catalog and the Sun use.
var bodyTextures = []string{
	TextureSun,
	TextureMercury,
	TextureVenus,
	TextureEarth,
	TextureMars,
	TextureMoon,
}

// Run opens a window and runs the solar system until the window is closed
// or the process is interrupted. The engine is torn down on every exit
// path.
func Run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := NewTextureLoader(os.DirFS(cfg.AssetDir), log)
	preload := append(append([]string{}, bodyTextures...), SkyboxFaces[:]...)
	if err := loader.Preload(ctx, preload...); err != nil {
		log.Warn("preload incomplete", "err", err)
	}

	host := NewEbitenHost(cfg.Width, cfg.Height, log)
	host.Input = NewEbitenInput()
	host.ScreenshotDir = cfg.ScreenshotDir

	var hud *HUD
	var onDelta func(float64)
	if cfg.HUD {
		hud = &HUD{}
		host.HUD = hud
		onDelta = hud.SetDelta
	}

	var metrics *Metrics
	if cfg.MetricsAddr != "" {
		metrics = NewMetrics()
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error("metrics server", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	sc := &SessionContext{}
	mount := func() (*Engine, error) {
		var catalog []CelestialBody
		if cfg.CatalogPath != "" {
			var err error
			if catalog, err = LoadCatalogFile(cfg.CatalogPath, loader); err != nil {
				return nil, err
			}
		}
		e, err := Mount(ctx, MountConfig{
			Host:        host,
			Loader:      loader,
			Catalog:     catalog,
			Background:  loader.LoadCube(SkyboxFaces),
			NewRenderer: NewEbitenRenderer,
			Input:       host.Input,
			OnDelta:     onDelta,
			Session:     sc,
			Logger:      log,
			Metrics:     metrics,
			Debug:       cfg.Debug,
		})
		if err != nil {
			return nil, err
		}
		if hud != nil {
			hud.SetGeneration(e.Generation())
		}
		return e, nil
	}

	engine, err := mount()
	if err != nil {
		return err
	}
	defer func() { engine.Teardown() }()

	if cfg.HotReload {
		watch := []string{cfg.AssetDir}
		if cfg.CatalogPath != "" {
			watch = append(watch, filepath.Dir(cfg.CatalogPath))
		}
		reloader, err := NewReloader(log, watch...)
		if err != nil {
			return err
		}
		defer reloader.Close()
		host.OnUpdate = func() error {
			changed := reloader.Pending()
			if len(changed) == 0 {
				return nil
			}
			log.Info("reloading", "changed", changed)
			loader.Invalidate()
			next, err := mount()
			if err != nil {
				// Keep the running session; the next change retries.
				log.Error("reload failed", "err", err)
				return nil
			}
			engine.Teardown()
			engine = next
			return nil
		}
	}

	go func() {
		<-ctx.Done()
		host.Close()
	}()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(host); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	log.Debug("window closed")
	return nil
}
