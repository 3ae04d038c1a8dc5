package validator

import "strings"

// fieldMessages maps a JSON field name to rule -> message.
// The "*" field holds messages shared by every field.
type fieldMessages map[string]map[string]string

func defaultFieldMessages() fieldMessages {
	return fieldMessages{
		"email": {
			"required": "L'email è obbligatoria",
			"email":    "Inserisci un indirizzo email valido",
			"unique":   "Esiste già un account con questa email",
		},
		"name": {
			"required": "Il nome è obbligatorio",
			"min":      "Il nome deve contenere almeno 2 caratteri",
			"max":      "Il nome non può superare i 100 caratteri",
		},
		"role": {
			"oneof": "Ruolo non valido",
		},
		"status": {
			"oneof": "Stato non valido",
		},
		"bio": {
			"max": "La biografia non può superare i 500 caratteri",
		},
		"image_url": {
			"url": "Inserisci un URL valido per l'immagine",
		},
		"password": {
			"required": "La password è obbligatoria",
			"min":      "La password deve contenere almeno 8 caratteri",
			"max":      "La password non può superare i 72 caratteri",
		},
		"confirm_password": {
			"required": "Conferma la password",
			"eqfield":  "Le password non coincidono",
		},
		"decision": {
			"required": "La decisione è obbligatoria",
			"oneof":    "Decisione non valida",
		},
		"comment": {
			"required_if": "Il commento è obbligatorio quando il lavoro viene rifiutato",
			"max":         "Il commento non può superare i 1000 caratteri",
		},
		"page": {
			"min": "La pagina deve essere almeno 1",
		},
		"limit": {
			"min": "Il limite deve essere almeno 1",
			"max": "Il limite non può superare 100",
		},
		"search": {
			"max": "La ricerca non può superare i 100 caratteri",
		},
		"student_name": {
			"required": "Il nome dello studente è obbligatorio",
			"min":      "Il nome dello studente deve contenere almeno 2 caratteri",
		},
		"title": {
			"required": "Il titolo è obbligatorio",
			"max":      "Il titolo non può superare i 200 caratteri",
		},
		"link_url": {
			"url": "Inserisci un URL valido",
		},
		"attachments": {
			"max": "Puoi allegare al massimo 10 file",
			"url": "Ogni allegato deve essere un URL valido",
		},
		"*": {
			"required": "Campo obbligatorio",
			"type":     "Tipo di valore non valido",
		},
	}
}

func (m fieldMessages) lookup(field, rule string) (string, bool) {
	// attachments[2] -> attachments
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	if rules, ok := m[field]; ok {
		if msg, ok := rules[rule]; ok {
			return msg, true
		}
	}
	if msg, ok := m["*"][rule]; ok {
		return msg, true
	}
	return "", false
}

func (m fieldMessages) typeMismatch() string {
	return m["*"]["type"]
}
