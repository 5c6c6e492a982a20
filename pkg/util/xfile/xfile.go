// Package xfile 提供日志文件路径的基础校验与目录创建。
package xfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrNullByte 表示路径中包含空字节（\x00）。内核会在空字节处截断路径，
	// 导致 Go 代码与操作系统看到的路径不一致。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrInvalidPerm 表示目录权限无效（缺少所有者执行位，目录无法遍历）。
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")
)

// DefaultDirPerm 默认目录权限（0750：所有者读写执行，组读执行，其他无权限）。
const DefaultDirPerm = 0750

// SanitizePath 对路径做格式校验并规范化。
//
// 拒绝空路径与包含空字节的路径，返回 filepath.Clean 后的结果。
// 只做格式校验，不限制路径落在某个基准目录内。
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.IndexByte(path, 0) >= 0 {
		return "", ErrNullByte
	}
	return filepath.Clean(path), nil
}

// EnsureDir 确保文件的父目录存在，使用默认权限 0750。
// 目录已存在时不报错，也不会修改其权限。
func EnsureDir(filename string) error {
	return EnsureDirWithPerm(filename, DefaultDirPerm)
}

// EnsureDirWithPerm 确保文件的父目录存在，使用指定权限。
//
// filename 是文件路径而非目录路径；perm 必须包含所有者执行位（0100），
// 否则创建出的目录无法进入和遍历。
func EnsureDirWithPerm(filename string, perm os.FileMode) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if strings.IndexByte(filename, 0) >= 0 {
		return fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	if perm&0100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}
