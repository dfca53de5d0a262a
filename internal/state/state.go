package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Storage 水位状态的持久化存储。
// 实现必须保证单个键的更新不会丢失其他键。
type Storage interface {
	// Save 合并写入部分状态
	Save(partial map[string]string) error
	// Retrieve 读取全部状态
	Retrieve() (map[string]string, error)
}

// JSONFileStorage 基于本地 JSON 文件的存储实现
type JSONFileStorage struct {
	path string
}

// NewJSONFileStorage 创建 JSON 文件存储
func NewJSONFileStorage(path string) *JSONFileStorage {
	return &JSONFileStorage{path: path}
}

// Retrieve 读取全部状态。
// 文件不存在或无法解析时返回空状态（所有流从头同步），这是刻意的安全默认值。
func (s *JSONFileStorage) Retrieve() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		log.Printf("[State] 状态文件不可读，按全量同步处理: %v", err)
		return map[string]string{}, nil
	}

	state := map[string]string{}
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("[State] 状态文件解析失败，按全量同步处理: %v", err)
		return map[string]string{}, nil
	}
	return state, nil
}

// Save 合并写入部分状态。
// 先读取已有状态再整体覆盖，单键更新不影响其他键；
// 通过临时文件加改名落盘，避免写一半导致文件损坏。
func (s *JSONFileStorage) Save(partial map[string]string) error {
	state, err := s.Retrieve()
	if err != nil {
		return err
	}
	for key, value := range partial {
		state[key] = value
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("状态序列化失败: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("创建状态目录失败: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("写入状态文件失败: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("替换状态文件失败: %w", err)
	}
	return nil
}

// State 各变更流的水位读写入口
type State struct {
	storage Storage
}

// NewState 创建水位状态
func NewState(storage Storage) *State {
	return &State{storage: storage}
}

// Get 读取某个流的水位，不存在时返回空串
func (s *State) Get(key string) string {
	state, err := s.storage.Retrieve()
	if err != nil {
		return ""
	}
	return state[key]
}

// Set 写入某个流的水位
func (s *State) Set(key, value string) error {
	return s.storage.Save(map[string]string{key: value})
}
