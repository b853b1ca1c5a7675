// Package photo 提供员工照片的外部来源（HTTP / S3）与固定占位图。
package photo

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

//go:embed placeholder.svg
var placeholderSVG []byte

// ErrNotImage 来源返回的内容不是图片
var ErrNotImage = errors.New("照片内容不是图片")

// Image 照片内容
type Image struct {
	Data        []byte
	ContentType string
	Placeholder bool
}

// Placeholder 固定占位图
func Placeholder() *Image {
	return &Image{Data: placeholderSVG, ContentType: "image/svg+xml", Placeholder: true}
}

// Source 按员工 ID 获取照片原始字节
type Source interface {
	Fetch(ctx context.Context, employeeID string) ([]byte, error)
	Name() string
}

// Decode 识别内容类型，非图片返回 ErrNotImage
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNotImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotImage
	}
	return &Image{Data: data, ContentType: mt.String()}, nil
}

// expand 把模板中的 {id} 替换为员工 ID
func expand(template, employeeID string) string {
	return strings.ReplaceAll(template, "{id}", employeeID)
}
