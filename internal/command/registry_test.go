package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter_RFQ(t *testing.T) {
	r := DefaultRegistry(func(string) {})

	got := r.Filter("rfq")

	var labels []string
	for _, c := range got {
		labels = append(labels, c.Label)
	}
	require.Equal(t, []string{"RFQs", "Create RFQ"}, labels, "declaration order, navigation before actions")
}

func TestFilter_EmptyQueryReturnsAllInOrder(t *testing.T) {
	r := DefaultRegistry(func(string) {})

	got := r.Filter("")
	require.Equal(t, r.All(), got)
	require.Equal(t, "Dashboard", got[0].Label)
	require.Equal(t, "Import Catalog", got[len(got)-1].Label)

	got = r.Filter("   ")
	require.Equal(t, r.All(), got)
}

func TestFilter_KeywordMatch(t *testing.T) {
	r := DefaultRegistry(func(string) {})

	got := r.Filter("billing")
	var labels []string
	for _, c := range got {
		labels = append(labels, c.Label)
	}
	require.Equal(t, []string{"Invoices", "Export Invoices"}, labels)
}

func TestFilter_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry(func(string) {})
	require.Equal(t, r.Filter("rfq"), r.Filter("RFQ"))
}

func TestFilter_NoMatch(t *testing.T) {
	r := DefaultRegistry(func(string) {})
	require.Empty(t, r.Filter("zzz-nothing"))
}

func TestRun_BoundToNavigator(t *testing.T) {
	var visited []string
	r := DefaultRegistry(func(target string) { visited = append(visited, target) })

	for _, c := range r.Filter("deliveries") {
		c.Run()
	}
	require.Equal(t, []string{"/deliveries"}, visited)
}
