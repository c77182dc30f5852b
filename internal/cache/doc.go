// Package cache defines the disk layout for Hugging Face LoRA weights managed
// under the host's loras directory. Each artifact lives at
// <lora_root>/hf_lora_loader/<sanitized repo id>/<name>; the store exposes
// path computation with traversal guards, directory creation, atomic install
// (temp file + rename, modtime preserved) and root-relative path rendering.
// Cached files are only ever created or overwritten, never deleted.
package cache
