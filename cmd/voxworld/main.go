package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	"github.com/xlab/closer"

	"voxworld/internal/agent"
	"voxworld/internal/config"
	"voxworld/internal/engine"
	"voxworld/internal/pathfind"
	"voxworld/internal/voxel"
	"voxworld/internal/world"
)

const spawnWarmRadius = 2

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	seedFlag := flag.String("seed", "", "world seed, overrides config and env")
	ticks := flag.Uint64("ticks", 0, "run exactly N ticks then exit (0 = run until interrupted)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seedFlag != "" {
		cfg.Seed = *seedFlag
	}
	config.SetRenderDistance(cfg.RenderDistance)

	seed := world.ParseSeed(cfg.Seed)
	params := world.DefaultParams()
	if cfg.TerrainParams != "" {
		if err := params.ParseQuery(cfg.TerrainParams); err != nil {
			log.Fatalf("terrain params: %v", err)
		}
	}
	if !cfg.Caves {
		params.CaveMaxPerChunk = 0
	}

	table := agent.DefaultTable()
	if cfg.SpeciesFile != "" {
		table, err = agent.LoadTable(cfg.SpeciesFile)
		if err != nil {
			log.Fatalf("species table: %v", err)
		}
	}

	reg := voxel.NewRegistry()
	gen := world.NewGenerator(seed, params)

	opts := []world.ManagerOption{
		world.WithLoadRadius(cfg.LoadRadius),
		world.WithDeleteRadius(cfg.DeleteRadius),
	}
	if cfg.Workers > 0 {
		opts = append(opts, world.WithWorkers(cfg.Workers))
	}
	mgr := world.NewChunkManager(gen, reg, opts...)

	queue := pathfind.NewQueue(mgr, reg)
	agents := agent.NewManager(mgr, reg, queue, table, seed)

	// Warm a small area synchronously so spawn placement has real terrain.
	for cx := -spawnWarmRadius; cx <= spawnWarmRadius; cx++ {
		for cz := -spawnWarmRadius; cz <= spawnWarmRadius; cz++ {
			mgr.EnsureLoaded(cx, cz)
		}
	}

	probe := mgl32.Vec3{0.5, float32(gen.HeightAt(0, 0) + 1), 0.5}
	spawn := mgr.ClosestFreeSpace(probe)
	log.Printf("seed %d, spawn (%.1f, %.1f, %.1f), load radius %d, workers %d",
		seed, spawn.X(), spawn.Y(), spawn.Z(), cfg.LoadRadius, cfg.Workers)

	obs := &orbitObserver{
		center: spawn,
		radius: 24,
		speed:  0.1,
		start:  time.Now(),
	}

	for i := 0; i < cfg.AgentCount; i++ {
		sp := agent.Species(i % 3)
		offset := mgl32.Vec3{float32(3 * (i + 1)), 0, float32(2 * (i % 5))}
		pos := mgr.ClosestFreeSpace(spawn.Add(offset))
		a := agents.Spawn(sp, agent.BehaviorWandering, pos)
		if sp == agent.SpeciesWolf {
			a.SetTarget(agent.TargetFunc(obs.ObserverPosition))
		}
	}
	log.Printf("spawned %d agents", agents.Count())

	eng := engine.New(mgr, queue, agents, obs, cfg.TickRate,
		engine.WithMaxTicks(*ticks),
		engine.WithStatsEvery(uint64(cfg.TickRate)*10),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
	})

	go func() {
		err := eng.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("engine stopped: %v", err)
		}
		active, queued, cached := mgr.Stats()
		log.Printf("shutdown after %d ticks: chunks active=%d queued=%d cached=%d, agents=%d",
			eng.Ticks(), active, queued, cached, agents.Count())
		close(done)
		closer.Close()
	}()

	closer.Hold()
}

// orbitObserver circles the spawn point so chunk streaming has a moving
// focus to follow in a headless run.
type orbitObserver struct {
	center mgl32.Vec3
	radius float32
	speed  float32 // radians per second
	start  time.Time
}

func (o *orbitObserver) ObserverPosition() mgl32.Vec3 {
	t := float64(time.Since(o.start).Seconds()) * float64(o.speed)
	return mgl32.Vec3{
		o.center.X() + o.radius*float32(math.Cos(t)),
		o.center.Y(),
		o.center.Z() + o.radius*float32(math.Sin(t)),
	}
}
