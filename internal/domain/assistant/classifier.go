package assistant

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

// Canned replies used when the remote assistant cannot answer
const (
	ReplyGreeting = "¡Hola! Gracias por tu interés en este producto. ¿En qué puedo ayudarte?"
	ReplyPrice    = "El precio publicado es el precio final. Podés pagarlo en cuotas con los medios de pago disponibles en la página del producto."
	ReplyShipping = "Hacemos envíos a todo el país. El tiempo estimado de entrega depende de tu ubicación y lo vas a ver al ingresar tu código postal."
	ReplyWarranty = "El producto tiene garantía del vendedor y podés devolverlo dentro de los 30 días si no quedás conforme."
	ReplySpecs    = "Todas las características y especificaciones están en la sección de descripción, más abajo en esta página."
	ReplyStock    = "Sí, hay stock disponible. Podés ver la cantidad exacta al elegir las unidades antes de comprar."
)

// Rule maps a set of keywords to a fixed reply
type Rule struct {
	Name     string
	Keywords []string
	Response string
}

// DefaultRules returns the keyword rules in priority order
func DefaultRules() []Rule {
	return []Rule{
		{Name: "greeting", Keywords: []string{"hola", "hi", "hello"}, Response: ReplyGreeting},
		{Name: "price", Keywords: []string{"precio", "cuesta", "vale"}, Response: ReplyPrice},
		{Name: "shipping", Keywords: []string{"envío", "entrega", "llegar"}, Response: ReplyShipping},
		{Name: "warranty", Keywords: []string{"garantía", "devolución", "cambio"}, Response: ReplyWarranty},
		{Name: "specs", Keywords: []string{"características", "especificaciones", "detalles"}, Response: ReplySpecs},
		{Name: "stock", Keywords: []string{"stock", "disponible", "hay"}, Response: ReplyStock},
	}
}

// DefaultGeneralResponses returns the acknowledgements used when no rule matches
func DefaultGeneralResponses() []string {
	return []string{
		"Gracias por tu consulta. Un asesor te va a responder a la brevedad.",
		"Entiendo tu pregunta. ¿Podrías darme más detalles para ayudarte mejor?",
		"¡Buena pregunta! Te recomiendo revisar la descripción del producto para más información.",
		"Estoy para ayudarte. ¿Querés saber algo sobre precio, envío, garantía o stock?",
		"Gracias por escribirnos. Si tenés otra duda sobre este producto, consultanos.",
	}
}

// RandomSource picks an index in [0, n)
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Classifier answers user text with canned replies. Rules are evaluated
// top to bottom and the first rule with a keyword contained in the text wins.
// Unmatched text gets one of the general responses.
type Classifier struct {
	rules   []Rule
	general []string

	mu  sync.Mutex // guards rng
	rng RandomSource
}

// NewClassifier creates a classifier with the default rules.
// A nil rng uses the process-wide random source.
func NewClassifier(rng RandomSource) *Classifier {
	return newClassifier(DefaultRules(), DefaultGeneralResponses(), rng)
}

// NewClassifierWithRules creates a classifier with custom rules
func NewClassifierWithRules(rules []Rule, general []string, rng RandomSource) (*Classifier, error) {
	if len(general) == 0 {
		return nil, errors.New("classifier: at least one general response is required")
	}
	for _, g := range general {
		if strings.TrimSpace(g) == "" {
			return nil, errors.New("classifier: general responses cannot be blank")
		}
	}
	for _, r := range rules {
		if strings.TrimSpace(r.Response) == "" {
			return nil, errors.New("classifier: rule " + r.Name + " has a blank response")
		}
		if len(r.Keywords) == 0 {
			return nil, errors.New("classifier: rule " + r.Name + " has no keywords")
		}
	}
	return newClassifier(rules, general, rng), nil
}

func newClassifier(rules []Rule, general []string, rng RandomSource) *Classifier {
	if rng == nil {
		rng = globalSource{}
	}
	folded := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				kws = append(kws, shared.Fold(kw))
			}
		}
		folded[i] = Rule{Name: r.Name, Keywords: kws, Response: r.Response}
	}
	return &Classifier{
		rules:   folded,
		general: append([]string(nil), general...),
		rng:     rng,
	}
}

// Match returns the first rule whose keywords appear in text
func (c *Classifier) Match(text string) (Rule, bool) {
	folded := shared.Fold(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(folded, kw) {
				return r, true
			}
		}
	}
	return Rule{}, false
}

// Classify returns the canned reply for text. The result never echoes the input.
func (c *Classifier) Classify(text string) string {
	if r, ok := c.Match(text); ok {
		return r.Response
	}
	c.mu.Lock()
	i := c.rng.IntN(len(c.general))
	c.mu.Unlock()
	return c.general[i]
}

// GeneralResponses returns a copy of the no-match replies
func (c *Classifier) GeneralResponses() []string {
	return append([]string(nil), c.general...)
}

// Responses returns every reply the classifier can produce
func (c *Classifier) Responses() []string {
	out := make([]string, 0, len(c.rules)+len(c.general))
	for _, r := range c.rules {
		out = append(out, r.Response)
	}
	return append(out, c.general...)
}
