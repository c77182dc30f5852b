package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/loan-mgt/hf-lora-loader/internal/config"
	"github.com/loan-mgt/hf-lora-loader/internal/ensure"
	"github.com/loan-mgt/hf-lora-loader/internal/folders"
	"github.com/loan-mgt/hf-lora-loader/internal/hub"
	"github.com/loan-mgt/hf-lora-loader/internal/logging"
	"github.com/loan-mgt/hf-lora-loader/internal/server"
	"github.com/loan-mgt/hf-lora-loader/internal/server/routes"
	"github.com/loan-mgt/hf-lora-loader/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool

	// 一次性 ensure 模式：repoID 非空时下载后直接退出。
	repoID        string
	filename      string
	revision      string
	saveAs        string
	sha256        string
	token         string
	loraRoot      string
	forceDownload bool
	disableResume bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["lora_roots"] = cfg.LoraRoots()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动遵循“配置 → 目录注册表 → Hub 客户端 → ensure 服务”顺序，
	// 一次性模式与 HTTP 服务共享同一套协作方。
	registry := cfg.FolderRegistry()
	httpClient := hub.NewHTTPClient(cfg.Global.DownloadTimeout.DurationValue())
	hubClient := hub.NewClient(httpClient, cfg.Global.Endpoint, cfg.Global.Token, logger)
	svc := ensure.NewService(registry, hubClient.Download, logger)

	if opts.repoID != "" {
		return runEnsureOnce(svc, cfg, opts)
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["lora_roots"] = cfg.LoraRoots()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, registry, svc, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// runEnsureOnce 执行一次性下载并把相对路径写到 stdout，供脚本消费。
func runEnsureOnce(svc *ensure.Service, cfg *config.Config, opts cliOptions) int {
	resume := cfg.Global.ResumeDownload && !opts.disableResume
	token := opts.token
	if token == "" {
		token = cfg.Global.Token
	}

	rel, err := svc.Ensure(context.Background(), ensure.Request{
		RepoID:         opts.repoID,
		Filename:       opts.filename,
		Revision:       opts.revision,
		SaveAs:         opts.saveAs,
		Token:          token,
		ForceDownload:  opts.forceDownload,
		ResumeDownload: &resume,
		ExpectedSHA256: opts.sha256,
		LoraRoot:       opts.loraRoot,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "ensure 失败: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdOut, rel)
	return 0
}

// loadConfig 读取配置；一次性模式允许配置文件缺失，只要显式给出 lora 根目录。
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if opts.repoID != "" && opts.loraRoot != "" && !opts.checkOnly {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("hf-lora-loader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	var configFlag string

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 HF_LORA_CONFIG 覆盖）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")

	fs.StringVar(&opts.repoID, "repo", "", "一次性模式：Hugging Face 仓库标识，如 author/repo")
	fs.StringVar(&opts.filename, "filename", "", "一次性模式：仓库内文件路径")
	fs.StringVar(&opts.revision, "revision", "", "可选的仓库版本（分支/标签/commit）")
	fs.StringVar(&opts.saveAs, "save-as", "", "覆盖本地保存文件名")
	fs.StringVar(&opts.sha256, "sha256", "", "期望的 SHA-256 摘要，用于完整性校验")
	fs.StringVar(&opts.token, "token", "", "访问令牌，默认回退到 HF_TOKEN / HUGGINGFACE_TOKEN")
	fs.StringVar(&opts.loraRoot, "lora-root", "", "覆盖 loras 根目录")
	fs.BoolVar(&opts.forceDownload, "force", false, "无视缓存强制重下")
	fs.BoolVar(&opts.disableResume, "no-resume", false, "禁用断点续传")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("HF_LORA_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}
	opts.configPath = path

	if opts.repoID != "" && opts.filename == "" {
		return cliOptions{}, fmt.Errorf("一次性模式需要同时提供 -repo 与 -filename")
	}

	return opts, nil
}

func startHTTPServer(cfg *config.Config, registry *folders.Registry, svc *ensure.Service, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger: logger,
		Ensure: svc,
	})
	if err != nil {
		return err
	}
	routes.RegisterEnsureRoutes(app, svc, logger)
	routes.RegisterDiagnosticsRoutes(app, registry)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
