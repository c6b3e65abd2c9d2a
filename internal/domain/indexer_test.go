package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defscope.dev/pkg/defscope/internal/domain"
	m "defscope.dev/pkg/defscope/internal/model"
)

func strategyDocument() m.Document {
	return m.NewDocumentFromLines([]string{
		`"""Momentum strategy."""`,
		"import math",
		"from collections import deque",
		"",
		"window = IntParameter(5, 50, default=20, space='buy', optimize=True)",
		"threshold = DecimalParameter(",
		"    0.01, 0.10,",
		"    default=0.03,",
		"    space='sell',",
		")",
		"",
		"class Momentum(BaseStrategy, ta.Mixin):",
		"    def populate(self, frame):",
		"        return frame",
		"",
		"    @staticmethod",
		"    def helper():",
		"        return 1",
		"",
		"def standalone(x):",
		"    return x * 2",
	})
}

func TestIndexerBuild_Classes(t *testing.T) {
	index := domain.NewIndexer().Build(strategyDocument())

	require.Len(t, index.Classes, 1)

	class := index.Classes[0]
	assert.Equal(t, "Momentum", class.Name)
	assert.Equal(t, 12, class.Line)
	assert.Equal(t, 18, class.EndLine)
	assert.Equal(t, []string{"BaseStrategy", "Mixin"}, class.Bases)

	require.Len(t, class.Methods, 2)
	assert.Equal(t, "populate", class.Methods[0].Name)
	assert.Equal(t, 13, class.Methods[0].Line)
	assert.Equal(t, 14, class.Methods[0].EndLine)
	assert.Equal(t, "helper", class.Methods[1].Name)
	assert.Equal(t, 17, class.Methods[1].Line)
	assert.Equal(t, 18, class.Methods[1].EndLine)
}

func TestIndexerBuild_ModuleFunctions(t *testing.T) {
	index := domain.NewIndexer().Build(strategyDocument())

	require.Len(t, index.Functions, 1)
	assert.Equal(t, "standalone", index.Functions[0].Name)
	assert.Equal(t, 20, index.Functions[0].Line)
	assert.Equal(t, 21, index.Functions[0].EndLine)
}

func TestIndexerBuild_Params(t *testing.T) {
	index := domain.NewIndexer().Build(strategyDocument())

	require.Len(t, index.Params, 2)

	window := index.Params[0]
	assert.Equal(t, "window", window.Name)
	assert.Equal(t, "IntParameter", window.Type)
	assert.Equal(t, 5, window.Line)
	assert.Equal(t, 5, window.EndLine)
	assert.Equal(t, []string{"5", "50"}, window.Args)
	assert.Equal(t, "20", window.Default)
	assert.Equal(t, "'buy'", window.Space)
	assert.Equal(t, "True", window.Optimize)

	threshold := index.Params[1]
	assert.Equal(t, "threshold", threshold.Name)
	assert.Equal(t, "DecimalParameter", threshold.Type)
	assert.Equal(t, 6, threshold.Line)
	assert.Equal(t, 10, threshold.EndLine)
	assert.Equal(t, []string{"0.01", "0.10"}, threshold.Args)
	assert.Equal(t, "0.03", threshold.Default)
	assert.Equal(t, "'sell'", threshold.Space)
	assert.Equal(t, "", threshold.Optimize)
}

func TestIndexerBuild_DottedAndAnnotatedParam(t *testing.T) {
	doc := m.NewDocumentFromLines([]string{
		"stake: float = ft.DecimalParameter(0.1, 0.5, default=0.2)",
	})

	index := domain.NewIndexer().Build(doc)

	require.Len(t, index.Params, 1)
	assert.Equal(t, "stake", index.Params[0].Name)
	assert.Equal(t, "DecimalParameter", index.Params[0].Type)
	assert.Equal(t, "0.2", index.Params[0].Default)
}

func TestIndexerBuild_QuotedCommaDoesNotSplitArgs(t *testing.T) {
	doc := m.NewDocumentFromLines([]string{
		`mode = CategoricalParameter(['a,b', 'c'], default='a,b')`,
	})

	index := domain.NewIndexer().Build(doc)

	require.Len(t, index.Params, 1)
	assert.Equal(t, []string{"['a,b', 'c']"}, index.Params[0].Args)
	assert.Equal(t, "'a,b'", index.Params[0].Default)
}

func TestIndexerBuild_IgnoresComparisonsAndPlainAssignments(t *testing.T) {
	doc := m.NewDocumentFromLines([]string{
		"x = 1",
		"ok = value == Parameter(1)",
		"y = compute(1, 2)",
	})

	index := domain.NewIndexer().Build(doc)
	assert.Empty(t, index.Params)
}

func TestIndexerBuild_ClassWithoutBasesOrMethods(t *testing.T) {
	doc := m.NewDocumentFromLines([]string{
		"class Empty:",
		"    marker = True",
	})

	index := domain.NewIndexer().Build(doc)

	require.Len(t, index.Classes, 1)
	assert.Equal(t, "Empty", index.Classes[0].Name)
	assert.Nil(t, index.Classes[0].Bases)
	assert.Empty(t, index.Classes[0].Methods)
}

func TestIndexerBuild_MetaclassKeywordIsNotABase(t *testing.T) {
	doc := m.NewDocumentFromLines([]string{
		"class C(Base, metaclass=ABCMeta):",
		"    pass",
	})

	index := domain.NewIndexer().Build(doc)

	require.Len(t, index.Classes, 1)
	assert.Equal(t, []string{"Base"}, index.Classes[0].Bases)
}

func TestIndexerBuild_NestedFunctionIsNotAMethod(t *testing.T) {
	doc := m.NewDocumentFromLines([]string{
		"class C:",
		"    def outer(self):",
		"        def inner():",
		"            pass",
		"        return inner",
	})

	index := domain.NewIndexer().Build(doc)

	require.Len(t, index.Classes, 1)
	require.Len(t, index.Classes[0].Methods, 1)
	assert.Equal(t, "outer", index.Classes[0].Methods[0].Name)
}

func TestFindFunction_MethodsBeforeModuleFunctions(t *testing.T) {
	indexer := domain.NewIndexer()
	index := indexer.Build(strategyDocument())

	fn, ok := indexer.FindFunction(index, "populate")
	require.True(t, ok)
	assert.Equal(t, "Momentum", fn.ClassName)
	assert.True(t, fn.IsMethod())

	fn, ok = indexer.FindFunction(index, "standalone")
	require.True(t, ok)
	assert.Empty(t, fn.ClassName)
	assert.False(t, fn.IsMethod())

	_, ok = indexer.FindFunction(index, "missing")
	assert.False(t, ok)
}

func TestFindClassAndParam(t *testing.T) {
	indexer := domain.NewIndexer()
	index := indexer.Build(strategyDocument())

	class, ok := indexer.FindClass(index, "Momentum")
	require.True(t, ok)
	assert.Equal(t, 12, class.Line)

	_, ok = indexer.FindClass(index, "Other")
	assert.False(t, ok)

	param, ok := indexer.FindParam(index, "threshold")
	require.True(t, ok)
	assert.Equal(t, 6, param.Line)

	_, ok = indexer.FindParam(index, "missing")
	assert.False(t, ok)
}
