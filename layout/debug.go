package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局方案输出为 JSON，便于调试折行与坐标。
func WriteDebugJSON(labels []*Label, path string) error {
	if len(labels) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
