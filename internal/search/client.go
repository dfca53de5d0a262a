package search

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// 文档索引名
const (
	IndexMovies  = "movies"
	IndexGenres  = "genres"
	IndexPersons = "persons"
)

// InitES 初始化 Elasticsearch 连接
func InitES(elasticURL string) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{elasticURL},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504},
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建 Elasticsearch 客户端: %w", err)
	}

	// 测试连接
	res, err := es.Ping()
	if err != nil {
		return nil, fmt.Errorf("Elasticsearch ping 失败: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch ping 返回错误: %s", res.String())
	}

	return es, nil
}
