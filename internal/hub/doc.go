// Package hub 实现 Hugging Face Hub 的下载传输层：把 repo_id/filename/revision
// 组装成 resolve URL，带上 Bearer token 发起请求，并通过 .partial 文件支持
// 断点续传。上层只依赖 DownloadFunc 签名，测试可以注入任意假实现。
package hub
