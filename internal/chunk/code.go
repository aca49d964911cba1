package chunk

import (
	"context"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/llmx/llmx/internal/tokenizer"
)

var topLevelSymbolTypes = map[string]bool{
	"function_declaration": true,
	"class_declaration":    true,
	"method_definition":    true,
}

// chunkJavaScript parses source with the tree-sitter grammar selected by
// extension and emits one draft per top-level function/class/method node.
// Returns nil (triggering the plain-text fallback) if parsing is
// unavailable or yields no symbols.
func chunkJavaScript(filePath, source string) []Draft {
	lang := languageForPath(filePath)
	if lang == nil {
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil || tree == nil {
		return nil
	}
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	src := []byte(source)
	var drafts []Draft
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil || !topLevelSymbolTypes[child.Type()] {
			continue
		}
		content := strings.TrimSpace(string(src[child.StartByte():child.EndByte()]))
		if content == "" {
			continue
		}
		symbol := ""
		if nameNode := child.ChildByFieldName("name"); nameNode != nil {
			symbol = string(src[nameNode.StartByte():nameNode.EndByte()])
		}
		drafts = append(drafts, Draft{
			Kind:      tokenizer.KindJavaScript,
			StartLine: int(child.StartPoint().Row) + 1,
			EndLine:   int(child.EndPoint().Row) + 1,
			Content:   content,
			Symbol:    symbol,
		})
	}
	if len(drafts) == 0 {
		return nil
	}
	return drafts
}

func languageForPath(filePath string) *sitter.Language {
	ext := strings.ToLower(path.Ext(filePath))
	switch ext {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}
