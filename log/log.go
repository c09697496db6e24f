package log

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var l *zap.SugaredLogger

func init() {
	ecfg := zap.NewDevelopmentEncoderConfig()
	ecfg.EncodeTime = func(t time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(t.Format("15:04:05.000"))
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(ecfg),
		zapcore.Lock(os.Stderr),
		zap.DebugLevel,
	)
	logger := zap.New(core)
	zap.RedirectStdLog(logger)
	l = logger.Sugar()
}

func Sync() {
	_ = l.Sync()
}

func Debug(args ...interface{}) {
	l.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	l.Debugf(format, args...)
}

func Info(args ...interface{}) {
	l.Info(args...)
}

func Infof(format string, args ...interface{}) {
	l.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

func Error(args ...interface{}) {
	l.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	l.Errorf(format, args...)
}

func Fatal(args ...interface{}) {
	l.Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	l.Fatalf(format, args...)
}
