package state

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestState(t *testing.T) (*State, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return NewState(NewJSONFileStorage(path)), path
}

func TestGetAbsentKey(t *testing.T) {
	st, _ := newTestState(t)

	if got := st.Get("persons"); got != "" {
		t.Errorf("Get() 对不存在的键返回 %q，期望空串", got)
	}
}

func TestSetAndGet(t *testing.T) {
	st, _ := newTestState(t)

	if err := st.Set("genres", "2024-01-02T03:04:05Z"); err != nil {
		t.Fatalf("Set() 失败: %v", err)
	}
	if got := st.Get("genres"); got != "2024-01-02T03:04:05Z" {
		t.Errorf("Get() = %q，期望 2024-01-02T03:04:05Z", got)
	}
}

func TestSetPreservesSiblingKeys(t *testing.T) {
	st, _ := newTestState(t)

	keys := map[string]string{
		"persons":      "2024-01-01T00:00:00Z",
		"genres":       "2024-02-01T00:00:00Z",
		"filmworks":    "2024-03-01T00:00:00Z",
		"fw_by_person": "2024-04-01T00:00:00Z",
	}
	for key, value := range keys {
		if err := st.Set(key, value); err != nil {
			t.Fatalf("Set(%q) 失败: %v", key, err)
		}
	}

	// 单键更新不能影响其他键
	if err := st.Set("genres", "2024-05-01T00:00:00Z"); err != nil {
		t.Fatalf("Set() 失败: %v", err)
	}

	keys["genres"] = "2024-05-01T00:00:00Z"
	for key, want := range keys {
		if got := st.Get(key); got != want {
			t.Errorf("Get(%q) = %q，期望 %q", key, got, want)
		}
	}
}

func TestCorruptFileDefaultsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("not json{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	st := NewState(NewJSONFileStorage(path))

	// 损坏的状态文件等价于从头全量同步，而不是报错
	if got := st.Get("persons"); got != "" {
		t.Errorf("Get() 对损坏文件返回 %q，期望空串", got)
	}
	if err := st.Set("persons", "2024-01-01T00:00:00Z"); err != nil {
		t.Fatalf("Set() 在损坏文件之上写入失败: %v", err)
	}
	if got := st.Get("persons"); got != "2024-01-01T00:00:00Z" {
		t.Errorf("Get() = %q", got)
	}
}

func TestDurableAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewState(NewJSONFileStorage(path))
	if err := first.Set("filmworks", "2024-06-01T00:00:00Z"); err != nil {
		t.Fatalf("Set() 失败: %v", err)
	}

	// 模拟进程重启：新实例读同一个文件
	second := NewState(NewJSONFileStorage(path))
	if got := second.Get("filmworks"); got != "2024-06-01T00:00:00Z" {
		t.Errorf("重启后 Get() = %q，期望 2024-06-01T00:00:00Z", got)
	}
}
