package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "(none)", JoinOrNone(nil))
	assert.Equal(t, "(none)", JoinOrNone([]string{}))
	assert.Equal(t, "alice", JoinOrNone([]string{"alice"}))
	assert.Equal(t, "alice, bob", JoinOrNone([]string{"alice", "bob"}))
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "no users", JoinOrDefault(nil, "no users"))
	assert.Equal(t, "eth0, eth1", JoinOrDefault([]string{"eth0", "eth1"}, "none"))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "indices"},
		{1, "index"},
		{2, "indices"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.count, "index", "indices"))
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"test", "tset", 2},
		{"test", "tests", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"mysql", "mariadb", "nginx", "php", "docker", "ufw"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "missing char", input: "mysq", expected: []string{"mysql"}},
		{name: "transposition", input: "ngnix", expected: []string{"nginx"}},
		{name: "case insensitive", input: "MYSQL", expected: []string{"mysql"}},
		{name: "no close match", input: "elasticsearch", expected: nil},
		{name: "empty input", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.input, candidates, 2))
		})
	}
}

func TestSuggestSimilar_EmptyCandidates(t *testing.T) {
	assert.Nil(t, SuggestSimilar("mysql", nil, 2))
}
