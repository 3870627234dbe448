package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always picks the same index (modulo n)
type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func TestClassifier_Classify_Rules(t *testing.T) {
	c := NewClassifier(fixedSource(0))

	tests := []struct {
		text string
		want string
	}{
		{"hola, buenas", ReplyGreeting},
		{"HELLO there", ReplyGreeting},
		{"¿cuánto cuesta?", ReplyPrice},
		{"Qué PRECIO tiene?", ReplyPrice},
		{"¿Cuándo me va a llegar?", ReplyShipping},
		{"¿Hacen envío a Córdoba?", ReplyShipping},
		{"¿Tiene garantía?", ReplyWarranty},
		{"¿Aceptan devolución?", ReplyWarranty},
		{"Quiero conocer las características", ReplySpecs},
		{"Necesito las especificaciones técnicas", ReplySpecs},
		{"¿Queda stock?", ReplyStock},
		{"¿Está disponible en azul?", ReplyStock},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
			// deterministic for rule branches
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassifier_Classify_Priority(t *testing.T) {
	c := NewClassifier(fixedSource(0))

	t.Run("greeting wins over price", func(t *testing.T) {
		assert.Equal(t, ReplyGreeting, c.Classify("Hola, ¿cuánto cuesta?"))
	})

	t.Run("price wins over shipping", func(t *testing.T) {
		assert.Equal(t, ReplyPrice, c.Classify("¿Cuánto cuesta el envío?"))
	})

	t.Run("warranty wins over stock", func(t *testing.T) {
		assert.Equal(t, ReplyWarranty, c.Classify("¿Queda stock con garantía?"))
	})
}

func TestClassifier_Classify_General(t *testing.T) {
	general := DefaultGeneralResponses()
	require.GreaterOrEqual(t, len(general), 5)

	for i := range general {
		c := NewClassifier(fixedSource(i))
		assert.Equal(t, general[i], c.Classify("Gracias por todo"))
	}

	t.Run("default source returns a member of the general set", func(t *testing.T) {
		c := NewClassifier(nil)
		for i := 0; i < 20; i++ {
			assert.Contains(t, general, c.Classify("Buenas tardes, una consulta"))
		}
	})

	t.Run("blank text gets a general reply", func(t *testing.T) {
		c := NewClassifier(fixedSource(1))
		assert.Equal(t, general[1], c.Classify(""))
	})
}

func TestClassifier_NeverEchoesInput(t *testing.T) {
	c := NewClassifier(nil)
	responses := c.Responses()

	for _, text := range []string{"xyzzy", "hola xyzzy", "precio?", "", "Buen día"} {
		got := c.Classify(text)
		assert.NotEmpty(t, got)
		assert.Contains(t, responses, got)
		assert.NotContains(t, got, "xyzzy")
	}
}

func TestClassifier_Match(t *testing.T) {
	c := NewClassifier(nil)

	rule, ok := c.Match("¿Cuánto vale?")
	require.True(t, ok)
	assert.Equal(t, "price", rule.Name)

	_, ok = c.Match("Buen día")
	assert.False(t, ok)
}

func TestNewClassifierWithRules(t *testing.T) {
	t.Run("uses custom rules in order", func(t *testing.T) {
		c, err := NewClassifierWithRules(
			[]Rule{
				{Name: "first", Keywords: []string{"ABC"}, Response: "one"},
				{Name: "second", Keywords: []string{"abc", "def"}, Response: "two"},
			},
			[]string{"general"},
			fixedSource(0),
		)
		require.NoError(t, err)

		assert.Equal(t, "one", c.Classify("xx abc xx"))
		assert.Equal(t, "two", c.Classify("DEF"))
		assert.Equal(t, "general", c.Classify("zzz"))
	})

	t.Run("rejects empty general set", func(t *testing.T) {
		_, err := NewClassifierWithRules(DefaultRules(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects blank rule response", func(t *testing.T) {
		_, err := NewClassifierWithRules([]Rule{{Name: "x", Keywords: []string{"x"}}}, []string{"g"}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects rule without keywords", func(t *testing.T) {
		_, err := NewClassifierWithRules([]Rule{{Name: "x", Response: "r"}}, []string{"g"}, nil)
		assert.Error(t, err)
	})
}
