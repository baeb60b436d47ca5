package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_Navigation(t *testing.T) {
	for _, in := range []string{
		"/rfqs",
		"go to orders",
		"open invoice 42",
		"  Go To Deliveries  ",
		"OPEN products",
	} {
		require.Equal(t, Navigation, Classify(in), "input %q", in)
	}
}

func TestClassify_Action(t *testing.T) {
	for _, in := range []string{
		"create rfq",
		"add product to basket",
		"new order",
		"export invoices",
		"import catalog",
	} {
		require.Equal(t, Action, Classify(in), "input %q", in)
	}
}

// Navigation is checked before the action rule, so a slash-prefixed action
// verb still routes to navigation.
func TestClassify_NavigationWinsOverAction(t *testing.T) {
	require.Equal(t, Navigation, Classify("/create widget"))
	require.Equal(t, Navigation, Classify("open new orders page"))
}

func TestClassify_Conversation(t *testing.T) {
	require.Equal(t, Conversation, Classify("what is the best supplier for engine oil"))
	require.Equal(t, Conversation, Classify("tell me about vessel atlantica"))
	require.Equal(t, Conversation, Classify("is there a cheaper quote"))
	require.Equal(t, Conversation, Classify("price trends?"))

	long := strings.Repeat("supplies for the upcoming voyage ", 3)
	require.GreaterOrEqual(t, len(long), 60)
	require.Equal(t, Conversation, Classify(long))
}

// Length >= 60 loses to the earlier prefix rules.
func TestClassify_PrefixRulesWinOverLength(t *testing.T) {
	long := "open " + strings.Repeat("x", 80)
	require.Equal(t, Navigation, Classify(long))

	long = "create " + strings.Repeat("y", 80)
	require.Equal(t, Action, Classify(long))
}

func TestClassify_SearchDefault(t *testing.T) {
	require.Equal(t, Search, Classify("engine oil"))
	require.Equal(t, Search, Classify("IMPA 550101"))
	require.Equal(t, Search, Classify(""))
	require.Equal(t, Search, Classify("   "))
}

func TestClassify_Idempotent(t *testing.T) {
	in := "go to suppliers"
	require.Equal(t, Classify(in), Classify(in))
}
