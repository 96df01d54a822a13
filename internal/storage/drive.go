package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrDriveNotConfigured 未配置 Google Drive OAuth 凭据
var ErrDriveNotConfigured = errors.New("storage: google drive not configured")

// Archiver 截图归档接口，返回外部可访问的归档链接
type Archiver interface {
	Archive(ctx context.Context, name string, mimeType string, content io.Reader) (string, error)
}

// DriveArchiver 将审核截图归档到 Google Drive 指定目录
type DriveArchiver struct {
	service  *drive.Service
	folderID string
}

// NewDriveArchiver 通过 OAuth Refresh Token 初始化 Drive 客户端
func NewDriveArchiver(ctx context.Context, cfg config.DriveConfig) (*DriveArchiver, error) {
	if strings.TrimSpace(cfg.ClientID) == "" ||
		strings.TrimSpace(cfg.ClientSecret) == "" ||
		strings.TrimSpace(cfg.RefreshToken) == "" {
		return nil, ErrDriveNotConfigured
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &DriveArchiver{
		service:  service,
		folderID: strings.TrimSpace(cfg.FolderID),
	}, nil
}

// Archive 上传文件并开放匿名只读权限，返回直链
func (a *DriveArchiver) Archive(ctx context.Context, name string, mimeType string, content io.Reader) (string, error) {
	if a == nil || a.service == nil {
		return "", ErrDriveNotConfigured
	}

	meta := &drive.File{Name: name}
	if a.folderID != "" {
		meta.Parents = []string{a.folderID}
	}

	created, err := a.service.Files.Create(meta).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive upload: %w", err)
	}

	// 个人盘允许时开放匿名读取，失败不影响归档结果
	_, err = a.service.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		logger.Z().Warn("设置 Drive 文件共享权限失败",
			zap.String("file_id", created.Id),
			zap.Error(err))
	}

	return fmt.Sprintf("https://docs.google.com/uc?export=view&id=%s", created.Id), nil
}
