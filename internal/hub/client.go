package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Request 描述一次 Hugging Face 文件下载。Filename 是仓库内路径，
// TargetDir 是写入目录，Resume/Force 均为传输层提示。
type Request struct {
	RepoID         string
	Filename       string
	Revision       string
	Token          string
	TargetDir      string
	ForceDownload  bool
	ResumeDownload bool
}

// DownloadFunc 是传输层的可注入签名：执行网络下载并返回本地文件路径。
type DownloadFunc func(ctx context.Context, req Request) (string, error)

// HTTPError 表示 Hub 返回的非成功状态码。
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("hub request %s failed: %s", e.URL, e.Status)
}

// Client 基于共享 http.Client 实现 DownloadFunc，写入走 .partial 临时文件，
// 成功后 rename 到最终路径。
type Client struct {
	http     *http.Client
	endpoint string
	token    string
	logger   *logrus.Logger
}

// NewClient 构造下载客户端。endpoint 为空时回退到 ResolveEndpoint 的默认逻辑；
// token 是客户端级默认令牌，仅在请求未携带 token 时生效。
func NewClient(httpClient *http.Client, endpoint, token string, logger *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		http:     httpClient,
		endpoint: ResolveEndpoint(endpoint),
		token:    strings.TrimSpace(token),
		logger:   logger,
	}
}

// ResolveURL 拼出标准的 resolve 下载地址：
//
//	<endpoint>/<repo_id>/resolve/<revision>/<filename>
//
// revision 为空时使用 main。
func (c *Client) ResolveURL(req Request) string {
	revision := strings.TrimSpace(req.Revision)
	if revision == "" {
		revision = "main"
	}
	return fmt.Sprintf("%s/%s/resolve/%s/%s",
		c.endpoint,
		strings.Trim(req.RepoID, "/"),
		revision,
		strings.TrimPrefix(req.Filename, "/"),
	)
}

// Download 实现 DownloadFunc。目标路径已存在 .partial 且允许续传时，
// 通过 Range 请求续写；服务器不支持（416 或忽略 Range）时从头重下。
func (c *Client) Download(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.TargetDir) == "" {
		return "", fmt.Errorf("target dir required")
	}

	rel := filepath.FromSlash(strings.TrimPrefix(req.Filename, "/"))
	finalPath := filepath.Join(req.TargetDir, rel)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	partialPath := finalPath + ".partial"

	var offset int64
	if req.ForceDownload {
		os.Remove(partialPath)
	} else if req.ResumeDownload {
		if info, err := os.Stat(partialPath); err == nil {
			offset = info.Size()
		}
	}

	url := c.ResolveURL(req)
	token := req.Token
	if token == "" {
		token = c.token
	}

	resp, err := c.fetch(ctx, url, token, offset)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && offset > 0 {
		// 本地残片比远端文件还长，放弃续传从头来。
		resp.Body.Close()
		os.Remove(partialPath)
		offset = 0
		if resp, err = c.fetch(ctx, url, token, 0); err != nil {
			return "", err
		}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		offset = 0
	case http.StatusPartialContent:
		// 续写已有残片
	default:
		return "", &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := writeBody(partialPath, resp.Body, offset); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, finalPath); err != nil {
		os.Remove(partialPath)
		return "", err
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"action":   "hub_download",
			"repo":     req.RepoID,
			"filename": req.Filename,
			"status":   resp.StatusCode,
			"resumed":  offset > 0,
		}).Debug("download completed")
	}
	return finalPath, nil
}

func (c *Client) fetch(ctx context.Context, url, token string, offset int64) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build hub request: %w", err)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if offset > 0 {
		httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hub request %s: %w", url, err)
	}
	return resp, nil
}

// writeBody 把响应正文写入 .partial 文件；offset 大于 0 时追加，否则截断重写。
func writeBody(partialPath string, body io.Reader, offset int64) error {
	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open partial file: %w", err)
	}

	_, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("write partial file: %w", copyErr)
	}
	return closeErr
}
