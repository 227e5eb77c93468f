package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gesture/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.LandmarkCount, convey.ShouldEqual, 21)
				convey.So(cfg.PredictionCacheSize, convey.ShouldEqual, 4096)
				convey.So(cfg.LogMaxSizeMB, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("GESTURE_ADDR", ":8080")
			t.Setenv("GESTURE_MODEL_PATH", "/srv/models/svc.json")
			t.Setenv("GESTURE_LANDMARK_COUNT", "5")
			t.Setenv("GESTURE_PREDICTION_CACHE_SIZE", "0")
			t.Setenv("GESTURE_LOG_FILE", "/var/log/gesture.log")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/srv/models/svc.json")
				convey.So(cfg.LandmarkCount, convey.ShouldEqual, 5)
				convey.So(cfg.PredictionCacheSize, convey.ShouldEqual, 0)
				convey.So(cfg.LogFile, convey.ShouldEqual, "/var/log/gesture.log")
				convey.So(cfg.ScalerPath, convey.ShouldEqual, "models/MMscale.json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# artifact locations
addr: ":9090"
model_path: "artifacts/svc.json"
scaler_path: "artifacts/scaler.json"
encoder_path: ""
log_level: debug
actions:
  "16": up
  "2": down
  "11": stop
`
			t.Setenv(config.EnvConfigFile, createTempConfigFile(t, yamlContent))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "artifacts/svc.json")
				convey.So(cfg.ScalerPath, convey.ShouldEqual, "artifacts/scaler.json")
				convey.So(cfg.EncoderPath, convey.ShouldEqual, "")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LandmarkCount, convey.ShouldEqual, 21) // From defaults

				table, err := cfg.ActionTable()
				convey.So(err, convey.ShouldBeNil)
				convey.So(table, convey.ShouldResemble, map[int]string{16: "up", 2: "down", 11: "stop"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
landmark_count: 10
prediction_cache_size: 64
`
			t.Setenv(config.EnvConfigFile, createTempConfigFile(t, yamlContent))
			t.Setenv("GESTURE_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LandmarkCount, convey.ShouldEqual, 10)
				convey.So(cfg.PredictionCacheSize, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			t.Setenv(config.EnvConfigFile, createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			t.Setenv("GESTURE_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			t.Setenv("GESTURE_LANDMARK_COUNT", "twenty-one")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative cache size", func() {
			t.Setenv("GESTURE_PREDICTION_CACHE_SIZE", "-1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the action table has a non-numeric key", func() {
			t.Setenv(config.EnvConfigFile, createTempConfigFile(t, "actions:\n  jump: up\n"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvConfigFile,
		"GESTURE_ADDR",
		"GESTURE_MODEL_PATH",
		"GESTURE_SCALER_PATH",
		"GESTURE_ENCODER_PATH",
		"GESTURE_LANDMARK_COUNT",
		"GESTURE_PREDICTION_CACHE_SIZE",
		"GESTURE_LOG_FILE",
		"GESTURE_LOG_LEVEL",
	} {
		if _, ok := os.LookupEnv(name); ok {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gesture-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
