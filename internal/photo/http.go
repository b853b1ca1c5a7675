package photo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxPhotoBytes 单张照片大小上限
const maxPhotoBytes = 5 << 20

// HTTPSource 通过 URL 模板拉取照片
type HTTPSource struct {
	template string
	client   *http.Client
}

// NewHTTPSource 创建 HTTPSource；template 中的 {id} 会被替换
func NewHTTPSource(template string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		template: template,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context, employeeID string) ([]byte, error) {
	target := expand(s.template, url.PathEscape(employeeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("照片服务返回状态码 %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}
