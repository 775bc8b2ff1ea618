package main

import (
	"reflect"
	"testing"
)

func imagePaths(paths ...string) []ImagePath {
	result := make([]ImagePath, len(paths))
	for i, p := range paths {
		result[i] = NewFileImagePath(p)
	}
	return result
}

// Helper function to convert ImagePath slice to string slice for easier debugging
func pathsToStrings(paths []ImagePath) []string {
	var result []string
	for _, path := range paths {
		result = append(result, path.Path)
	}
	return result
}

func TestSortStrategies(t *testing.T) {
	input := []string{"pics/01.png", "pics/10.jpg", "pics/08.gif", "pics/09.bmp", "pics/2.png", "pics/３.png"}

	tests := []struct {
		name     string
		strategy SortStrategy
		id       int
		expected []string
	}{
		{
			name:     "Entry Order",
			strategy: &EntryOrderSortStrategy{},
			id:       SortEntryOrder,
			expected: input,
		},
		{
			name:     "Natural",
			strategy: &NaturalSortStrategy{},
			id:       SortNatural,
			expected: []string{"pics/01.png", "pics/2.png", "pics/08.gif", "pics/09.bmp", "pics/10.jpg", "pics/３.png"},
		},
		{
			name:     "Simple",
			strategy: &SimpleSortStrategy{},
			id:       SortSimple,
			expected: []string{"pics/01.png", "pics/08.gif", "pics/09.bmp", "pics/10.jpg", "pics/2.png", "pics/３.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.strategy.Name() != tt.name {
				t.Errorf("Expected name '%s', got '%s'", tt.name, tt.strategy.Name())
			}
			if tt.strategy.ID() != tt.id {
				t.Errorf("Expected ID %d, got %d", tt.id, tt.strategy.ID())
			}

			original := imagePaths(input...)
			images := imagePaths(input...)
			result := tt.strategy.Sort(images)

			if !reflect.DeepEqual(pathsToStrings(result), tt.expected) {
				t.Errorf("Sort order mismatch")
				t.Logf("Expected: %v", tt.expected)
				t.Logf("Got:      %v", pathsToStrings(result))
			}
			if !reflect.DeepEqual(images, original) {
				t.Error("Input slice was modified - should be immutable")
			}
			if empty := tt.strategy.Sort(nil); len(empty) != 0 {
				t.Errorf("Expected empty result, got %v", empty)
			}
		})
	}
}

func TestGetSortStrategy(t *testing.T) {
	tests := []struct {
		sortMethod   int
		expectedID   int
		expectedName string
	}{
		{SortNatural, SortNatural, "Natural"},
		{SortSimple, SortSimple, "Simple"},
		{SortEntryOrder, SortEntryOrder, "Entry Order"},
		{999, SortEntryOrder, "Entry Order"}, // Default fallback
	}

	for _, tt := range tests {
		t.Run(tt.expectedName, func(t *testing.T) {
			strategy := GetSortStrategy(tt.sortMethod)

			if strategy.ID() != tt.expectedID {
				t.Errorf("Expected ID %d, got %d", tt.expectedID, strategy.ID())
			}
			if strategy.Name() != tt.expectedName {
				t.Errorf("Expected name '%s', got '%s'", tt.expectedName, strategy.Name())
			}
		})
	}
}

func TestNextSortMethod(t *testing.T) {
	tests := []struct {
		current  int
		expected int
	}{
		{SortEntryOrder, SortNatural},
		{SortNatural, SortSimple},
		{SortSimple, SortEntryOrder},
		{42, SortEntryOrder},
	}

	for _, tt := range tests {
		if got := nextSortMethod(tt.current); got != tt.expected {
			t.Errorf("nextSortMethod(%d) = %d, want %d", tt.current, got, tt.expected)
		}
	}
}

func TestSortStrategyEdgeCases(t *testing.T) {
	for _, strategy := range GetAllSortStrategies() {
		identical := imagePaths("test/same.png", "test/same.png", "test/same.png")
		result := strategy.Sort(identical)
		if len(result) != 3 {
			t.Errorf("Strategy %s changed length on identical paths", strategy.Name())
		}
		for _, path := range result {
			if path.Path != "test/same.png" {
				t.Errorf("Strategy %s changed identical paths", strategy.Name())
			}
		}
	}
}
