package pong

import (
	"testing"

	"pong-arena/internal/config"
	"pong-arena/internal/core"
)

func testPowerUpConfig() config.PongPowerUps {
	cfg := config.DefaultPongConfig().PowerUps
	cfg.SpawnCooldown = 100
	return cfg
}

func TestPowerUpSpawnCooldown(t *testing.T) {
	pm := NewPowerUpManager(1, testPowerUpConfig())

	pm.Update(50, 40, 12)
	if pm.Current != nil {
		t.Fatal("pickup spawned before the cooldown elapsed")
	}

	pm.Update(100, 40, 12)
	if pm.Current == nil {
		t.Fatal("no pickup spawned after the cooldown elapsed")
	}
	if pm.Current.X != 40 || pm.Current.Y != 12 {
		t.Errorf("pickup at (%v, %v), expected court center (40, 12)", pm.Current.X, pm.Current.Y)
	}

	// Only one pickup at a time.
	first := pm.Current
	pm.Update(200, 40, 12)
	if pm.Current != first {
		t.Error("second pickup spawned while one was in play")
	}
}

func TestPowerUpSpawnDisabled(t *testing.T) {
	cfg := testPowerUpConfig()
	cfg.Enabled = false
	pm := NewPowerUpManager(1, cfg)

	pm.Update(10000, 40, 12)
	if pm.Current != nil {
		t.Error("pickup spawned while power-ups are disabled")
	}
}

func TestPowerUpCollection(t *testing.T) {
	pm := NewPowerUpManager(2, testPowerUpConfig())
	pm.Update(100, 40, 12)

	far := &Ball{X: 10, Y: 10, Radius: 0.5}
	if got := pm.CheckBallCollision(far, 100); got >= 0 {
		t.Fatal("distant ball collected the pickup")
	}

	near := &Ball{X: 40.5, Y: 12, Radius: 0.5}
	collected := pm.CheckBallCollision(near, 150)
	if collected < 0 {
		t.Fatal("overlapping ball did not collect the pickup")
	}
	if pm.Current != nil {
		t.Error("pickup still in play after collection")
	}

	// Cooldown restarts from the collection tick.
	pm.Update(249, 40, 12)
	if pm.Current != nil {
		t.Error("respawn before cooldown elapsed after collection")
	}
	pm.Update(250, 40, 12)
	if pm.Current == nil {
		t.Error("no respawn after cooldown elapsed")
	}
}

func TestEffectExpiryIsIndependent(t *testing.T) {
	cfg := testPowerUpConfig()
	cfg.GiantTicks = 50
	cfg.InvertTicks = 100
	pm := NewPowerUpManager(3, cfg)

	pm.AddEffect(PowerGiant, core.Player1, 0)
	pm.AddEffect(PowerInvert, core.Player2, 0)

	pm.ExpireEffects(49)
	if !pm.HasEffect(PowerGiant, core.Player1) || !pm.HasEffect(PowerInvert, core.Player2) {
		t.Fatal("effects expired early")
	}

	pm.ExpireEffects(60)
	if pm.HasEffect(PowerGiant, core.Player1) {
		t.Error("giant effect survived past its duration")
	}
	if !pm.HasEffect(PowerInvert, core.Player2) {
		t.Error("invert effect expired with the giant effect")
	}

	pm.ExpireEffects(100)
	if len(pm.Effects) != 0 {
		t.Error("effects remain after all durations elapsed")
	}
}

func TestEffectReapplyExtends(t *testing.T) {
	cfg := testPowerUpConfig()
	cfg.GiantTicks = 50
	pm := NewPowerUpManager(4, cfg)

	pm.AddEffect(PowerGiant, core.Player1, 0)
	pm.AddEffect(PowerGiant, core.Player1, 40)

	if len(pm.Effects) != 1 {
		t.Fatalf("got %d effects, expected the reapply to extend the existing one", len(pm.Effects))
	}
	pm.ExpireEffects(60)
	if !pm.HasEffect(PowerGiant, core.Player1) {
		t.Error("extended effect expired at the original deadline")
	}
}

func TestPaddleScaleComposition(t *testing.T) {
	cfg := testPowerUpConfig()
	pm := NewPowerUpManager(5, cfg)

	if pm.PaddleScale(core.Player1) != 1.0 {
		t.Fatal("scale without effects should be 1.0")
	}

	pm.AddEffect(PowerGiant, core.Player1, 0)
	if got := pm.PaddleScale(core.Player1); got != cfg.GiantScale {
		t.Errorf("scale = %v, expected %v", got, cfg.GiantScale)
	}
	if got := pm.PaddleScale(core.Player2); got != 1.0 {
		t.Errorf("player 2 scale = %v, expected untouched 1.0", got)
	}

	pm.AddEffect(PowerMini, core.Player1, 0)
	want := cfg.GiantScale * cfg.MiniScale
	if got := pm.PaddleScale(core.Player1); got != want {
		t.Errorf("combined scale = %v, expected %v", got, want)
	}
}

func TestSpeedScale(t *testing.T) {
	cfg := testPowerUpConfig()
	pm := NewPowerUpManager(6, cfg)

	if pm.SpeedScale() != 1.0 {
		t.Fatal("speed scale without effects should be 1.0")
	}
	pm.AddEffect(PowerFast, core.PlayerNone, 0)
	if pm.SpeedScale() != cfg.FastScale {
		t.Errorf("speed scale = %v, expected %v", pm.SpeedScale(), cfg.FastScale)
	}
	pm.ExpireEffects(cfg.FastTicks + 1)
	if pm.SpeedScale() != 1.0 {
		t.Error("speed scale did not revert after expiry")
	}
}

func TestSimpleRNGDeterminism(t *testing.T) {
	a := NewSimpleRNG(12345)
	b := NewSimpleRNG(12345)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatal("same seed diverged")
		}
	}

	c := NewSimpleRNG(0)
	d := NewSimpleRNG(0)
	if c.Next() != d.Next() {
		t.Error("zero seed should still be deterministic")
	}

	for i := 0; i < 1000; i++ {
		if v := a.Intn(int(PowerCount)); v < 0 || v >= int(PowerCount) {
			t.Fatalf("Intn out of range: %d", v)
		}
		if f := a.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}
