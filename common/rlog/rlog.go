package rlog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the baseline logger profile
type Environment string

// environments
const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

const callerSkipFrames = 1

// errors
var (
	ErrInvalidEnvironment = errors.New("invalid log environment")
	ErrInvalidLevel       = errors.New("invalid log level")
)

var (
	loggerLock sync.RWMutex
	logger     *zap.SugaredLogger
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	l, err := build(EnvironmentLocal)
	if err != nil {
		panic(err)
	}
	logger = l
}

// Configure replaces the process logger with the profile of the environment and the level.
// An empty level keeps debug for local or development and info otherwise.
func Configure(env Environment, lv string) error {
	if env == "" {
		env = EnvironmentLocal
	}
	switch env {
	case EnvironmentProduction, EnvironmentDevelopment, EnvironmentLocal:
	default:
		return errors.Wrapf(ErrInvalidEnvironment, "%q", env)
	}
	if strings.TrimSpace(lv) == "" {
		if env == EnvironmentProduction {
			lv = "info"
		} else {
			lv = "debug"
		}
	}
	if err := SetLevel(lv); err != nil {
		return err
	}
	l, err := build(env)
	if err != nil {
		return err
	}

	loggerLock.Lock()
	old := logger
	logger = l
	loggerLock.Unlock()
	_ = old.Sync()
	return nil
}

// SetLevel changes the level of every logger returned by this package
func SetLevel(lv string) error {
	var parsed zapcore.Level
	if err := parsed.Set(lv); err != nil {
		return errors.Wrapf(ErrInvalidLevel, "%q", lv)
	}
	level.SetLevel(parsed)
	return nil
}

func build(env Environment) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if env == EnvironmentProduction {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = level
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(callerSkipFrames))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return l.Sugar(), nil
}

func current() *zap.SugaredLogger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return logger
}

// Named returns a structured logger for the subsystem
func Named(name string) *zap.SugaredLogger {
	return current().Desugar().WithOptions(zap.AddCallerSkip(-callerSkipFrames)).Sugar().Named(name)
}

// Println logs the values at the info level
func Println(v ...interface{}) {
	current().Info(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Fatalln logs the values and then calls os.Exit(1)
func Fatalln(v ...interface{}) {
	current().Fatal(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Sync flushes buffered log entries
func Sync() error {
	return current().Sync()
}
