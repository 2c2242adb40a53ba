package service

import (
	"context"
	"fmt"

	"github.com/yeisme/resultvault/pkg/internal/types"
	"github.com/yeisme/resultvault/pkg/metrics"
)

// ManifestName 清单制品的固定名称，重复构建时覆盖旧清单.
const ManifestName = "manifest.json"

// SaveArtifact 写入一个命名制品：字节进后端，目录追加一行.
// 同名重复写入覆盖后端字节，读取时返回最新一行.
func (s *VaultService) SaveArtifact(ctx context.Context, user, resultID, name string,
	content []byte, contentType string, metadata map[string]any,
) (*types.SaveArtifactResponse, error) {
	uri, err := s.vault.SaveArtifact(ctx, user, resultID, name, content, contentType, metadata)
	if err != nil {
		return nil, err
	}

	metrics.ArtifactsWritten.Inc()
	metrics.ArtifactBytesWritten.Add(float64(len(content)))

	info := types.ArtifactInfo{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: contentType,
		URI:         uri,
	}

	s.publishArtifactStored(user, resultID, info)

	return &types.SaveArtifactResponse{ResultID: resultID, Artifact: info}, nil
}

// ListArtifacts 返回结果的制品清单，名称升序，同名只含最新一条.
func (s *VaultService) ListArtifacts(ctx context.Context, user, resultID string) (*types.ListArtifactsResponse, error) {
	arts, err := s.listOwnedArtifacts(ctx, user, resultID)
	if err != nil {
		return nil, err
	}

	out := make([]types.ArtifactInfo, 0, len(arts))
	for i := range arts {
		out = append(out, artifactToInfo(&arts[i]))
	}

	return &types.ListArtifactsResponse{ResultID: resultID, Artifacts: out, Total: len(out)}, nil
}

// ReadArtifact 按名读回制品字节与登记的内容类型.
func (s *VaultService) ReadArtifact(ctx context.Context, user, resultID, name string) ([]byte, string, error) {
	if _, err := s.vault.GetResult(ctx, user, resultID); err != nil {
		return nil, "", err
	}

	art, err := s.vault.GetArtifact(ctx, resultID, name)
	if err != nil {
		return nil, "", err
	}

	raw, err := s.vault.ReadArtifact(ctx, art.URI)
	if err != nil {
		return nil, "", fmt.Errorf("read artifact %s: %w", name, err)
	}

	return raw, art.ContentType, nil
}

// BuildManifest 汇总结果内全部制品的 name→uri，作为 manifest.json 制品落库.
// 旧清单自身不进新清单的条目表.
func (s *VaultService) BuildManifest(ctx context.Context, user, resultID string) (*types.ManifestResponse, error) {
	arts, err := s.listOwnedArtifacts(ctx, user, resultID)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(arts))

	for i := range arts {
		if arts[i].Name == ManifestName {
			continue
		}

		entries[arts[i].Name] = arts[i].URI
	}

	if _, err := s.vault.SaveJSON(ctx, user, resultID, ManifestName, entries, nil); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}

	row, err := s.vault.GetArtifact(ctx, resultID, ManifestName)
	if err != nil {
		return nil, err
	}

	metrics.ArtifactsWritten.Inc()
	metrics.ArtifactBytesWritten.Add(float64(row.Size))

	info := artifactToInfo(row)
	s.publishArtifactStored(user, resultID, info)

	return &types.ManifestResponse{
		ResultID: resultID,
		Entries:  entries,
		Manifest: info,
	}, nil
}
