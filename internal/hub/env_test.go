package hub

import "testing"

func TestResolveTokenPriority(t *testing.T) {
	t.Setenv("HF_TOKEN", "env-hf")
	t.Setenv("HUGGINGFACE_TOKEN", "env-legacy")

	if got := ResolveToken("explicit"); got != "explicit" {
		t.Fatalf("显式 token 应优先，得到 %s", got)
	}
	if got := ResolveToken("  "); got != "env-hf" {
		t.Fatalf("HF_TOKEN 应先于 HUGGINGFACE_TOKEN，得到 %s", got)
	}

	t.Setenv("HF_TOKEN", "")
	if got := ResolveToken(""); got != "env-legacy" {
		t.Fatalf("应回退到 HUGGINGFACE_TOKEN，得到 %s", got)
	}

	t.Setenv("HUGGINGFACE_TOKEN", "")
	if got := ResolveToken(""); got != "" {
		t.Fatalf("无 token 时应返回空串，得到 %s", got)
	}
}

func TestResolveEndpoint(t *testing.T) {
	t.Setenv("HF_ENDPOINT", "")

	if got := ResolveEndpoint("https://mirror.example/"); got != "https://mirror.example" {
		t.Fatalf("配置端点应剥掉末尾斜杠，得到 %s", got)
	}

	t.Setenv("HF_ENDPOINT", "https://hf-mirror.example")
	if got := ResolveEndpoint(""); got != "https://hf-mirror.example" {
		t.Fatalf("应读取 HF_ENDPOINT，得到 %s", got)
	}

	t.Setenv("HF_ENDPOINT", "")
	if got := ResolveEndpoint(""); got != DefaultEndpoint {
		t.Fatalf("应回退到官方端点，得到 %s", got)
	}
}
