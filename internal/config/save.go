package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveStats updates the stats section in the config file when the user picks
// different aggregation fields from the UI. This preserves comments and
// formatting in other sections by using yaml.Node.
func SaveStats(configPath string, stats StatsConfig) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user's own config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	statsNode := buildStatsNode(stats)

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: "stats"},
						statsNode,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == "stats" {
					root.Content[i+1] = statsNode
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: "stats"},
					statsNode,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

func buildStatsNode(stats StatsConfig) *yaml.Node {
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "category_field"},
			{Kind: yaml.ScalarNode, Value: stats.CategoryField},
			{Kind: yaml.ScalarNode, Value: "sum_field"},
			{Kind: yaml.ScalarNode, Value: stats.SumField},
		},
	}
}

// writeAtomic writes to a temp file in the target directory, then renames.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".engitrack.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
