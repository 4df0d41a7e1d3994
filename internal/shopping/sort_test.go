package shopping

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.CategoryName + "/" + it.Name
	}
	return out
}

func TestSortForDisplay_PolishCollation(t *testing.T) {
	items := []Item{
		{ID: "1", CategoryName: "Warzywa", Name: "Ziemniaki"},
		{ID: "2", CategoryName: "Śniadania", Name: "Mleko"},
		{ID: "3", CategoryName: "Inne", Name: "Sól"},
		{ID: "4", CategoryName: "Słodycze", Name: "Masło"},
		{ID: "5", CategoryName: "Słodycze", Name: "Łosoś"},
		{ID: "6", CategoryName: "Słodycze", Name: "Lody"},
		{ID: "7", CategoryName: "Nabiał", Name: "Ser"},
	}

	got := SortForDisplay(items)

	want := []string{
		"Inne/Sól",
		"Nabiał/Ser",
		"Słodycze/Lody",
		"Słodycze/Łosoś",
		"Słodycze/Masło",
		"Śniadania/Mleko",
		"Warzywa/Ziemniaki",
	}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("SortForDisplay() order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortForDisplay_DeterministicForAnyPermutation(t *testing.T) {
	items := []Item{
		{ID: "a", CategoryName: "Inne", Name: "Sól", Unit: ""},
		{ID: "b", CategoryName: "Inne", Name: "Sól", Unit: "szczypta"},
		{ID: "c", CategoryName: "Nabiał", Name: "Jogurt"},
		{ID: "d", CategoryName: "Nabiał", Name: "jogurt"},
		{ID: "e", CategoryName: "Warzywa", Name: "Cebula", Unit: "szt"},
		{ID: "f", CategoryName: "Warzywa", Name: "Cebula", Unit: "szt"},
		{ID: "g", CategoryName: "Śniadania", Name: "Żurawina"},
	}
	want := SortForDisplay(items)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := slices.Clone(items)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if diff := cmp.Diff(want, SortForDisplay(shuffled)); diff != "" {
			t.Fatalf("Permutation %d sorted differently (-want +got):\n%s", i, diff)
		}
	}

	reversed := slices.Clone(items)
	slices.Reverse(reversed)
	if diff := cmp.Diff(want, SortForDisplay(reversed)); diff != "" {
		t.Errorf("Reversed input sorted differently (-want +got):\n%s", diff)
	}
}

func TestSortForDisplay_DoesNotModifyInput(t *testing.T) {
	items := []Item{
		{ID: "1", CategoryName: "Warzywa", Name: "Marchew"},
		{ID: "2", CategoryName: "Inne", Name: "Sól"},
	}
	before := slices.Clone(items)

	got := SortForDisplay(items)

	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("Input was modified (-before +after):\n%s", diff)
	}
	if got[0].ID != "2" {
		t.Errorf("Expected Inne first, got %+v", got[0])
	}
	if len(SortForDisplay(nil)) != 0 {
		t.Error("Expected empty result for nil input")
	}
}
