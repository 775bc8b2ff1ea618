package main

import (
	"sort"

	"github.com/maruel/natural"
)

// Sort method constants
const (
	SortEntryOrder = 0 // Directory enumeration order (no sort)
	SortNatural    = 1 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 2 // Simple string sort (lexicographical)
)

// SortStrategy orders a sibling list.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(images []ImagePath) []ImagePath
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// sortedCopy copies images and sorts the copy with less, if given.
func sortedCopy(images []ImagePath, less func(a, b string) bool) []ImagePath {
	result := make([]ImagePath, len(images))
	copy(result, images)
	if less != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return less(result[i].Path, result[j].Path)
		})
	}
	return result
}

// EntryOrderSortStrategy keeps whatever order the directory or archive listed.
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(images []ImagePath) []ImagePath {
	return sortedCopy(images, nil)
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }
func (s *EntryOrderSortStrategy) ID() int      { return SortEntryOrder }

// NaturalSortStrategy implements natural sorting using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(images []ImagePath) []ImagePath {
	return sortedCopy(images, natural.Less)
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }
func (s *NaturalSortStrategy) ID() int      { return SortNatural }

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(images []ImagePath) []ImagePath {
	return sortedCopy(images, func(a, b string) bool { return a < b })
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }
func (s *SimpleSortStrategy) ID() int      { return SortSimple }

// GetSortStrategy returns the strategy for a sort method ID, falling back to
// entry order for unknown IDs.
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortSimple:
		return &SimpleSortStrategy{}
	default:
		return &EntryOrderSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies in cycle order.
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&EntryOrderSortStrategy{},
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
	}
}

// nextSortMethod returns the sort method that follows current in cycle order.
func nextSortMethod(current int) int {
	all := GetAllSortStrategies()
	for i, s := range all {
		if s.ID() == current {
			return all[(i+1)%len(all)].ID()
		}
	}
	return all[0].ID()
}

// sortImagePaths sorts the given image paths using the specified sort strategy.
// Returns a new sorted slice without modifying the original.
func sortImagePaths(images []ImagePath, sortMethod int) []ImagePath {
	return GetSortStrategy(sortMethod).Sort(images)
}
