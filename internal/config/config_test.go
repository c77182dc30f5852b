package config

import (
	"testing"

	"github.com/loan-mgt/hf-lora-loader/internal/folders"
)

func TestFolderRegistryBuildsFromConfig(t *testing.T) {
	cfg := &Config{
		Folders: []FolderConfig{
			{Category: "loras", Paths: []string{"/data/loras", "/backup/loras"}},
			{Category: "vae", Paths: []string{"/data/vae"}},
		},
	}

	reg := cfg.FolderRegistry()
	primary, ok := reg.Primary(folders.CategoryLoras)
	if !ok || primary != "/data/loras" {
		t.Fatalf("unexpected primary lora root: %s", primary)
	}
	if got := reg.Paths("vae"); len(got) != 1 || got[0] != "/data/vae" {
		t.Fatalf("unexpected vae paths: %v", got)
	}
}

func TestLoraRootsEmptyWithoutFolders(t *testing.T) {
	cfg := &Config{}
	if roots := cfg.LoraRoots(); roots != nil {
		t.Fatalf("未配置目录时应返回 nil，得到 %v", roots)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置应通过校验: %v", err)
	}
	if cfg.Global.ListenPort != 5001 {
		t.Fatalf("unexpected default port: %d", cfg.Global.ListenPort)
	}
	if !cfg.Global.ResumeDownload {
		t.Fatalf("默认应开启续传")
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil || d.DurationValue().Seconds() != 90 {
		t.Fatalf("unexpected parse result: %v %v", d, err)
	}
	if err := d.UnmarshalText([]byte("120")); err != nil || d.DurationValue().Seconds() != 120 {
		t.Fatalf("纯数字应按秒解析: %v %v", d, err)
	}
	if err := d.UnmarshalText([]byte("abc")); err == nil {
		t.Fatalf("非法值应返回错误")
	}
}
