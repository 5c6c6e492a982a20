package xfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/omeyang/logkit/pkg/util/xfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "empty", in: "", wantErr: xfile.ErrEmptyPath},
		{name: "null byte", in: "/var/log\x00/app.log", wantErr: xfile.ErrNullByte},
		{name: "clean", in: "/var/log/app.log", want: "/var/log/app.log"},
		{name: "normalize", in: "/var//log/./app.log", want: "/var/log/app.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := xfile.SanitizePath(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b", "app.log")

	require.NoError(t, xfile.EnsureDir(target))

	info, err := os.Stat(filepath.Join(base, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// 目录已存在时不报错
	require.NoError(t, xfile.EnsureDir(target))

	// 相对裸文件名无需创建目录
	require.NoError(t, xfile.EnsureDir("app.log"))
}

func TestEnsureDirWithPerm(t *testing.T) {
	err := xfile.EnsureDirWithPerm("", 0750)
	assert.ErrorIs(t, err, xfile.ErrEmptyPath)

	err = xfile.EnsureDirWithPerm("x\x00y/app.log", 0750)
	assert.ErrorIs(t, err, xfile.ErrNullByte)

	// 缺少所有者执行位
	err = xfile.EnsureDirWithPerm(filepath.Join(t.TempDir(), "c", "app.log"), 0600)
	assert.ErrorIs(t, err, xfile.ErrInvalidPerm)
}
