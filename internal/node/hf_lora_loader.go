package node

import (
	"context"
	"errors"

	"github.com/loan-mgt/hf-lora-loader/internal/ensure"
)

// Key 是 HF LoRA 加载节点在宿主注册表中的内部标识。
const Key = "HFLoraLoaderModelOnly"

// DisplayName 是宿主 UI 中的展示名。
const DisplayName = "HF LoRA Loader (Model Only)"

// ErrLoaderUnavailable 表示宿主未提供原生加载器，节点无法委派。
var ErrLoaderUnavailable = errors.New("host model loader unavailable")

// LoadParams 汇总节点的全部输入，与注册表中的 InputSpec 一一对应。
type LoadParams struct {
	RepoID         string
	Filename       string
	StrengthModel  float64
	Revision       string
	SaveAs         string
	ExpectedSHA256 string
	Token          string
	ForceDownload  bool
	ResumeDownload *bool
}

// HFLoraLoaderModelOnly 组合 ensure 编排与宿主原生加载器：
// 先确保权重文件缓存在本地，再用解析出的相对路径替换文件名参数委派加载。
type HFLoraLoaderModelOnly struct {
	ensure *ensure.Service
	loader ModelLoader
}

// NewHFLoraLoaderModelOnly 构造节点实例；loader 为 nil 时 Load 返回配置错误。
func NewHFLoraLoaderModelOnly(svc *ensure.Service, loader ModelLoader) *HFLoraLoaderModelOnly {
	return &HFLoraLoaderModelOnly{
		ensure: svc,
		loader: loader,
	}
}

// Load 执行 “ensure → 委派宿主加载” 的完整流程。
func (n *HFLoraLoaderModelOnly) Load(ctx context.Context, model Model, params LoadParams) (Model, error) {
	if n.loader == nil {
		return nil, ErrLoaderUnavailable
	}

	localName, err := n.ensure.Ensure(ctx, ensure.Request{
		RepoID:         params.RepoID,
		Filename:       params.Filename,
		Revision:       params.Revision,
		SaveAs:         params.SaveAs,
		Token:          params.Token,
		ForceDownload:  params.ForceDownload,
		ResumeDownload: params.ResumeDownload,
		ExpectedSHA256: params.ExpectedSHA256,
	})
	if err != nil {
		return nil, err
	}

	return n.loader.LoadLoraModelOnly(ctx, model, localName, params.StrengthModel)
}

func init() {
	MustRegister(Metadata{
		Key:         Key,
		DisplayName: DisplayName,
		Category:    "loaders/HuggingFace",
		Description: "Download a LoRA file from Hugging Face if it is missing (or outdated) and " +
			"then load it exactly like the built-in LoraLoaderModelOnly node.",
		Inputs: InputSpec{
			Required: []Param{
				{Name: "model", Type: "MODEL"},
				{Name: "repo_id", Type: "STRING", Default: "author/repo", Tooltip: "owner/repo on huggingface.co"},
				{Name: "filename", Type: "STRING", Default: "model.safetensors", Tooltip: "File path inside the repo."},
				{Name: "strength_model", Type: "FLOAT", Default: "1.0"},
			},
			Optional: []Param{
				{Name: "revision", Type: "STRING", Default: "main"},
				{Name: "save_as", Type: "STRING", Tooltip: "Override the local filename (optional)."},
				{Name: "expected_sha256", Type: "STRING", Tooltip: "Optional checksum to enforce integrity."},
				{Name: "huggingface_token", Type: "STRING", Tooltip: "Overrides HF_TOKEN env."},
				{Name: "force_download", Type: "BOOLEAN", Default: "false"},
				{Name: "resume_download", Type: "BOOLEAN", Default: "true"},
			},
		},
	})
}
