package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/user/filmsync/internal/model"
	"github.com/user/filmsync/internal/utils"
)

// Loader 向搜索引擎批量写入文档
type Loader struct {
	es *elasticsearch.Client
}

// NewLoader 创建加载器
func NewLoader(es *elasticsearch.Client) *Loader {
	return &Loader{es: es}
}

// bulk API 响应中关心的部分
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int             `json:"status"`
		Error  json.RawMessage `json:"error"`
	} `json:"items"`
}

// Load 将文档幂等写入指定索引。
// 以文档 id 作为 _id，重复投递只是覆盖。空输入直接返回。
// 传输层错误和 5xx 带退避重试，重试耗尽后错误上抛；
// 单个文档被拒绝只记日志，不中断本周期。
func (l *Loader) Load(index string, docs []model.Document) error {
	if len(docs) == 0 {
		log.Printf("[Loader] 索引 %q 无数据可写", index)
		return nil
	}

	body, err := buildBulkBody(index, docs)
	if err != nil {
		return err
	}

	log.Printf("[Loader] 开始写入 %d 个文档到索引 %q", len(docs), index)

	var failed int
	err = utils.Retry("bulk 写入 "+index, func() error {
		res, err := l.es.Bulk(bytes.NewReader(body), l.es.Bulk.WithIndex(index))
		if err != nil {
			return err // 传输层错误，可重试
		}
		defer res.Body.Close()

		if res.IsError() {
			if res.StatusCode >= 500 {
				return fmt.Errorf("bulk 请求返回 %d", res.StatusCode)
			}
			// 4xx 说明请求本身有问题，重试无意义
			return utils.Permanent(fmt.Errorf("bulk 请求被拒绝: %s", res.String()))
		}

		var parsed bulkResponse
		if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
			return utils.Permanent(fmt.Errorf("解析 bulk 响应失败: %w", err))
		}

		failed = 0
		if parsed.Errors {
			for _, item := range parsed.Items {
				for _, op := range item {
					if op.Status >= 300 {
						failed++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("写入索引 %q 失败: %w", index, err)
	}

	if failed > 0 {
		log.Printf("[Loader] 写入出错: %d 个文档未被索引 %q 接受", failed, index)
	}
	log.Printf("[Loader] 成功写入 %d/%d 个文档到索引 %q", len(docs)-failed, len(docs), index)
	return nil
}

// buildBulkBody 组装 NDJSON 格式的 bulk 请求体
func buildBulkBody(index string, docs []model.Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range docs {
		meta, err := json.Marshal(map[string]any{
			"index": map[string]string{"_index": index, "_id": doc.DocID()},
		})
		if err != nil {
			return nil, fmt.Errorf("序列化 bulk 元数据失败: %w", err)
		}
		source, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("序列化文档 %s 失败: %w", doc.DocID(), err)
		}
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(source)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
