package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndentOf(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"no indent", "def f():", 0},
		{"four spaces", "    x = 1", 4},
		{"tab", "\tx = 1", 1},
		{"mixed tab and spaces", "\t  x = 1", 3},
		{"empty", "", 0},
		{"whitespace only", "   ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, indentOf(tt.line))
		})
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"plain def", "def f():", true},
		{"indented def", "    def method(self):", true},
		{"async def", "async def handler(req):", true},
		{"indented async def", "    async def handler(req):", true},
		{"tab indented", "\tdef f():", true},
		{"underscore name", "def _private(x):", true},
		{"def without paren", "def f", false},
		{"def in identifier", "undefined = 1", false},
		{"defined call", "defrost()", false},
		{"class line", "class C:", false},
		{"blank", "", false},
		{"comment", "# def f():", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHeader(tt.line))
		})
	}
}

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "f", headerName("def f():"))
	assert.Equal(t, "handler", headerName("    async def handler(req):"))
	assert.Equal(t, "", headerName("x = 1"))
}

func TestIsNamedHeader(t *testing.T) {
	assert.True(t, isNamedHeader("def fetch():", "fetch"))
	assert.True(t, isNamedHeader("    async def fetch(self):", "fetch"))
	assert.False(t, isNamedHeader("def fetch_all():", "fetch"))
	assert.False(t, isNamedHeader("def fetch():", "fetch_all"))
	assert.False(t, isNamedHeader("def fetch():", "fet.h"))
	assert.False(t, isNamedHeader("def fetch():", ""))
}

func TestIsDecorator(t *testing.T) {
	assert.True(t, isDecorator("@cached"))
	assert.True(t, isDecorator("    @app.route('/x')"))
	assert.False(t, isDecorator("x = a @ b"))
	assert.False(t, isDecorator(""))
}

func TestIsCompound(t *testing.T) {
	assert.True(t, isCompound("class C:"))
	assert.True(t, isCompound("    class Inner(Base):"))
	assert.False(t, isCompound("classify()"))
	assert.False(t, isCompound("def f():"))
}

func TestIsScopeSibling(t *testing.T) {
	assert.True(t, isScopeSibling("def g():"))
	assert.True(t, isScopeSibling("@decorator"))
	assert.True(t, isScopeSibling("class D:"))
	assert.False(t, isScopeSibling("return 1"))
	assert.False(t, isScopeSibling(""))
}
