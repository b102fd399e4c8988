package services

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
	apperrors "github.com/villamare/concierge-nlu/pkg/errors"
)

// ExemplarSet maps each intent to its canonical anchor phrases. Sets are
// short on purpose: classification cost is intents × exemplars per message.
type ExemplarSet map[entities.Intent][]string

// DefaultExemplars returns the built-in pt/en exemplar phrases for the hotel
// intent taxonomy.
func DefaultExemplars() ExemplarSet {
	return ExemplarSet{
		entities.IntentGreeting: {
			"olá", "oi", "bom dia", "boa tarde", "boa noite",
			"hello", "hi", "good morning", "hey there",
		},
		entities.IntentReservationInquiry: {
			"quero fazer uma reserva", "gostaria de reservar",
			"tem disponibilidade", "preciso de um quarto",
			"quero me hospedar", "fazer booking",
		},
		entities.IntentPricingRequest: {
			"quanto custa", "qual o valor", "preço da diária",
			"valores para", "quanto fica", "orçamento para",
		},
		entities.IntentAvailabilityCheck: {
			"tem vaga", "está disponível", "tem quarto livre",
			"posso reservar", "tem lugar", "está lotado",
		},
		entities.IntentAmenitiesInfo: {
			"o que tem no hotel", "estrutura do hotel",
			"tem piscina", "área de lazer", "comodidades",
			"facilidades", "o que oferece",
		},
		entities.IntentRestaurantInfo: {
			"horário do restaurante", "café da manhã",
			"almoço", "jantar", "cardápio", "refeições",
		},
		entities.IntentWifiInfo: {
			"senha do wifi", "tem internet", "wifi password",
			"como conectar", "rede sem fio",
		},
		entities.IntentLocationInfo: {
			"onde fica o hotel", "como chegar", "endereço do hotel",
			"localização", "fica perto de", "how do i get there",
		},
		entities.IntentCheckinCheckoutInfo: {
			"horário de check-in", "horário de check-out",
			"posso chegar mais cedo", "sair mais tarde",
			"que horas posso entrar", "late checkout",
		},
		entities.IntentPastaRotation: {
			"rodízio de massas", "rodízio de pasta",
			"noite italiana", "festival de massas",
		},
		entities.IntentComplaint: {
			"estou insatisfeito", "péssimo atendimento",
			"quero reclamar", "problema com", "não gostei",
		},
		entities.IntentThanks: {
			"obrigado", "muito obrigada", "agradeço",
			"valeu", "thanks", "thank you",
		},
	}
}

// LoadExemplars reads an exemplar set from a JSON file keyed by intent name.
// Unknown intents and empty phrase lists are rejected so a bad data file
// fails construction instead of silently weakening classification.
func LoadExemplars(path string) (ExemplarSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError("exemplars file: " + path)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewValidationError("exemplars file is not valid JSON: " + err.Error())
	}

	set := make(ExemplarSet, len(raw))
	for name, phrases := range raw {
		intent := entities.Intent(strings.ToLower(strings.TrimSpace(name)))
		if !intent.IsValid() || intent == entities.IntentUnknown {
			return nil, apperrors.NewValidationError("unknown intent in exemplars file: " + name)
		}
		if len(phrases) == 0 {
			return nil, apperrors.NewValidationError("intent has no exemplar phrases: " + name)
		}
		cleaned := make([]string, 0, len(phrases))
		for _, p := range phrases {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		set[intent] = cleaned
	}

	if len(set) == 0 {
		return nil, apperrors.NewValidationError("exemplars file defines no intents")
	}
	return set, nil
}
