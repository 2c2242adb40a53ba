package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
)

// ExportResult 把结果的全部制品（按名去重后的最新版本）打包为 zip 写入 w，
// 返回打包的制品数.条目时间统一取结果创建时间，同一结果的导出字节可复现.
func (s *VaultService) ExportResult(ctx context.Context, user, resultID string, w io.Writer) (int, error) {
	res, err := s.vault.GetResult(ctx, user, resultID)
	if err != nil {
		return 0, err
	}

	arts, err := s.vault.ListArtifacts(ctx, resultID)
	if err != nil {
		return 0, err
	}

	zw := zip.NewWriter(w)

	for i := range arts {
		raw, err := s.vault.ReadArtifact(ctx, arts[i].URI)
		if err != nil {
			// 打包中途失败时 zip 已不完整，调用方应丢弃输出
			return 0, fmt.Errorf("read artifact %s: %w", arts[i].Name, err)
		}

		hdr := &zip.FileHeader{
			Name:     arts[i].Name,
			Method:   zip.Deflate,
			Modified: res.CreatedAt.UTC(),
		}

		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return 0, fmt.Errorf("create zip entry %s: %w", arts[i].Name, err)
		}

		if _, err := f.Write(raw); err != nil {
			return 0, fmt.Errorf("write zip entry %s: %w", arts[i].Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finish zip: %w", err)
	}

	return len(arts), nil
}

// ExportFileName 导出文件名约定：<result_id>.zip.
func ExportFileName(resultID string) string {
	return resultID + ".zip"
}
