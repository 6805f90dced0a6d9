package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/smartjunction-oss/task"
	"github.com/tsinghua-fib-lab/smartjunction-oss/ui"
	"github.com/tsinghua-fib-lab/smartjunction-oss/ui/httpapi"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
	"gopkg.in/yaml.v2"
)

var (
	// 任务名，用于日志标识
	job = flag.String("job", "job0", "the name of the control task")
	// 状态接口监听的HTTP地址，设置为空则不启动状态接口
	listenAddr = flag.String("listen", ":51120", "HTTP state listening address (empty means disabled)")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", task.SelfName)
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	var c config.Config
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	// 渲染端：终端状态行 + 可选的HTTP状态接口
	console := ui.NewConsoleRenderer()
	stateServer := httpapi.NewServer()

	t, err := task.NewContext(*job, c, console, stateServer)
	if err != nil {
		log.Panicf("task init err: %v", err)
	}

	if *listenAddr != "" {
		go func() {
			if err := stateServer.Serve(*listenAddr); err != nil {
				log.Panicf("failed to serve: %v", err)
			}
		}()
	}

	// SIGINT/SIGTERM触发拍间干净退出
	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	t.Run(runCtx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	if err := stateServer.Close(shutdownCtx); err != nil {
		log.Warnf("state server close err: %v", err)
	}
}
