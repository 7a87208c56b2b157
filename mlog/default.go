package mlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultDirMode    os.FileMode = 0755
	defaultMaxSizeMB              = 100
	defaultMaxBackups             = 10
	defaultTimeLayout             = "2006/01/02 15:04:05.000000"
)

// loggerImp 文件日志, zap编码, lumberjack按大小切分
type loggerImp struct {
	level  Level
	zl     *zap.Logger
	sugar  *zap.SugaredLogger
	rotate *lumberjack.Logger
}

func newDefaultLogger(logpath, logName string, level Level, stdOut bool) (*loggerImp, error) {
	// 默认使用当前路径
	if len(logpath) == 0 {
		logpath = "."
	}
	if err := os.MkdirAll(logpath, defaultDirMode); err != nil {
		return nil, err
	}
	rotate := &lumberjack.Logger{
		Filename:   filepath.Join(logpath, genLogName(logName)),
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		LocalTime:  true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(defaultTimeLayout)
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	ws := zapcore.AddSync(rotate)
	if stdOut {
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.Lock(os.Stdout))
	}
	// 等级过滤在IsLevelEnabled里做, zap这边全部放行
	core := zapcore.NewCore(encoder, ws, zapcore.DebugLevel)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))

	return &loggerImp{
		level:  level,
		zl:     zl,
		sugar:  zl.Sugar(),
		rotate: rotate,
	}, nil
}

func (me *loggerImp) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("mlog recover error %v\n", r)
			}
			wg.Done()
		}()

		<-ctx.Done()
		if err := me.zl.Sync(); err != nil {
			log.Println("mlog sync error", err)
		}
		if err := me.rotate.Close(); err != nil {
			log.Println("mlog close error", err)
		}
	}()
}

func (me *loggerImp) write(level Level, msg string) {
	switch level {
	case FatalLevel:
		me.sugar.Fatal(msg)
	case ErrorLevel:
		me.sugar.Error(msg)
	case WarnLevel:
		me.sugar.Warn(msg)
	case NoticeLevel:
		me.sugar.Info(getLevelTag(level) + msg)
	case InfoLevel:
		me.sugar.Info(msg)
	case DebugLevel:
		me.sugar.Debug(msg)
	default:
		me.sugar.Debug(getLevelTag(level) + msg)
	}
}

func (me *loggerImp) Log(level Level, args ...interface{}) {
	if me.IsLevelEnabled(level) {
		me.write(level, fmt.Sprint(args...))
	}
}

func (me *loggerImp) Logf(level Level, format string, args ...interface{}) {
	if me.IsLevelEnabled(level) {
		if len(format) == 0 {
			me.write(level, fmt.Sprint(args...))
		} else {
			me.write(level, fmt.Sprintf(format, args...))
		}
	}
}

func (me *loggerImp) Trace(args ...interface{}) {
	me.Log(TraceLevel, args...)
}

func (me *loggerImp) Tracef(format string, args ...interface{}) {
	me.Logf(TraceLevel, format, args...)
}

func (me *loggerImp) Debug(args ...interface{}) {
	me.Log(DebugLevel, args...)
}

func (me *loggerImp) Debugf(format string, args ...interface{}) {
	me.Logf(DebugLevel, format, args...)
}

func (me *loggerImp) Info(args ...interface{}) {
	me.Log(InfoLevel, args...)
}

func (me *loggerImp) Infof(format string, args ...interface{}) {
	me.Logf(InfoLevel, format, args...)
}

func (me *loggerImp) Notice(args ...interface{}) {
	me.Log(NoticeLevel, args...)
}

func (me *loggerImp) Noticef(format string, args ...interface{}) {
	me.Logf(NoticeLevel, format, args...)
}

func (me *loggerImp) Warn(args ...interface{}) {
	me.Log(WarnLevel, args...)
}

func (me *loggerImp) Warnf(format string, args ...interface{}) {
	me.Logf(WarnLevel, format, args...)
}

func (me *loggerImp) Error(args ...interface{}) {
	me.Log(ErrorLevel, args...)
}

func (me *loggerImp) Errorf(format string, args ...interface{}) {
	me.Logf(ErrorLevel, format, args...)
}

// Fatal zap写完后会直接退出进程
func (me *loggerImp) Fatal(args ...interface{}) {
	me.Log(FatalLevel, args...)
}

func (me *loggerImp) Fatalf(format string, args ...interface{}) {
	me.Logf(FatalLevel, format, args...)
}

func (me *loggerImp) IsLevelEnabled(level Level) bool {
	return me.level >= level
}

func genLogName(logName string) string {
	if logName == "" {
		logName = "mlog"
	}
	return logName + ".log"
}
