package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_singleStatementListCollapses(t *testing.T) {
	entry, err := Parse("package main; x = 1;")
	require.NoError(t, err)
	require.Len(t, entry.Body.Statements, 1)

	_, ok := entry.Body.Statements[0].(*AssignStatementNode)
	assert.True(t, ok, "expected single statement to survive as AssignStatementNode, got %T", entry.Body.Statements[0])
}

func TestTransform_binOpChainFoldsLeftAssociative(t *testing.T) {
	entry, err := Parse("package main; x = 1 + 2 + 3;")
	require.NoError(t, err)

	assign := entry.Body.Statements[0].(*AssignStatementNode)
	top, ok := assign.Expr.(*BinOpNode)
	require.True(t, ok, "expected top-level BinOpNode, got %T", assign.Expr)
	assert.Equal(t, BinAdd, top.Op)

	left, ok := top.Left.(*BinOpNode)
	require.True(t, ok, "expected left operand folded into BinOpNode, got %T", top.Left)
	assert.Equal(t, BinAdd, left.Op)
}

func TestTransform_compareOpSingleComparisonCollapses(t *testing.T) {
	entry, err := Parse("package main; x = 1 < 2;")
	require.NoError(t, err)

	assign := entry.Body.Statements[0].(*AssignStatementNode)
	_, ok := assign.Expr.(*CompareOpNode)
	assert.True(t, ok, "expected a single comparison to remain a CompareOpNode, got %T", assign.Expr)
}

func TestTransform_isIdempotent(t *testing.T) {
	entry, err := Parse("package main; x = 1 + 2 + 3; if (x > 0) { print(x); }")
	require.NoError(t, err)

	once := Transform(entry)
	twice := Transform(once)
	assert.Equal(t, once, twice)
}
