package engine

import "time"

// Demo content injected by the normalizer on first load. Subject and
// challenge text is kept in Spanish to match the classroom the app ships to.

func demoSubjects() []*Subject {
	return []*Subject{
		{ID: "sub_tec", Name: "Tecnología"},
		{ID: "sub_ing", Name: "Inglés"},
		{ID: "sub_esp", Name: "Español"},
		{ID: "sub_mat", Name: "Matemáticas"},
		{ID: "sub_tut", Name: "Tutoría"},
	}
}

func demoChallenges(subjects []*Subject) []*Challenge {
	tec := subjects[0]
	for _, s := range subjects {
		if s.Name == "Tecnología" {
			tec = s
			break
		}
	}

	mk := func(id string, diff Difficulty, title, body string) *Challenge {
		return &Challenge{
			ID:         id,
			SubjectID:  tec.ID,
			Subject:    tec.Name,
			Difficulty: diff,
			Points:     PointsForDifficulty(diff),
			Title:      title,
			Body:       body,
		}
	}

	return []*Challenge{
		mk("ch-tech-01", DifficultyEasy,
			"Ejercicio 1 – ¿Tecnología o no?",
			"Observa la lista (celular, presa, cuaderno, antena, martillo) y responde: ¿cuáles sí son tecnología? Explica por qué al menos uno que no parezca tecnología sí lo es."),
		mk("ch-tech-02", DifficultyEasy,
			"Ejercicio 2 – ¿Seguro o no seguro?",
			"Marca si la acción es segura o no segura y explica por qué: conectarte a un WiFi público sin contraseña; compartir una foto donde aparece tu escuela; reenviar un mensaje sin leerlo."),
		mk("ch-tech-03", DifficultyMedium,
			"Ejercicio 3 – El camino de la energía",
			"Explica cómo llega la energía eléctrica desde una presa hasta tu casa. Incluye al menos: la presa, el generador, los cables y tu casa."),
		mk("ch-tech-04", DifficultyMedium,
			"Ejercicio 4 – Internet como sistema técnico",
			"Explica cómo funciona mandar un mensaje por WhatsApp a un amigo: dispositivo, señal, antena o cable, servidor. Después responde: ¿qué podría fallar en este sistema?"),
		mk("ch-tech-05", DifficultyHard,
			"Ejercicio 5 – Exposición: Riesgos y seguridad en Internet",
			"Exposición individual o en equipo sobre un riesgo del internet (cuentas falsas, pérdida de privacidad, ciberacoso o información falsa), con ejemplo y recomendaciones de seguridad."),
		mk("ch-tech-06", DifficultyHard,
			"Ejercicio 6 – Exposición: Energía y tecnología en la vida diaria",
			"Exposición en equipo: cómo un tipo de energía permite que funcione una tecnología. Debe incluir de dónde viene la energía, cómo se transforma y por qué es importante."),
	}
}

func demoEvents() []*Event {
	return []*Event{
		{
			ID:          "ev_loquito",
			Kind:        EventKindBoss,
			Title:       "El Loquito del Centro",
			Unlock:      &EventRule{Type: "completions_total", Count: 3, Label: "Completa 3 desafíos (en total)"},
			Eligibility: &EventRule{Type: "level", Min: 1, Label: "Cualquier héroe (nivel 1+)"},
		},
		{
			ID:          "ev_garbanzo",
			Kind:        EventKindBoss,
			Title:       "El Garbanzo Coqueto",
			Unlock:      &EventRule{Type: "level_any", Min: 2, Label: "Algún héroe llega a Nivel 2"},
			Eligibility: &EventRule{Type: "level", Min: 2, Label: "Nivel 2+"},
		},
		{
			ID:          "ev_bonus",
			Kind:        EventKindEvent,
			Title:       "Evento: Cofre Misterioso",
			Unlock:      &EventRule{Type: "completions_total", Count: 6, Label: "Completa 6 desafíos (en total)"},
			Eligibility: &EventRule{Type: "completions_hero", Count: 2, Label: "Completa 2 desafíos con este héroe"},
		},
	}
}

func demoStore() Store {
	return Store{Items: []*StoreItem{
		{ID: "store_demo_1", Name: "Clase con juegos de mesa", Description: "Una clase completa jugando juegos de mesa educativos", Icon: "🎲", Cost: 6, Stock: 1, Available: true},
		{ID: "store_demo_2", Name: "Quitar 1 pregunta del examen", Description: "Elimina una pregunta de tu próximo examen", Icon: "📝", Cost: 4, Stock: InfiniteStock, Available: true},
		{ID: "store_demo_3", Name: "Elegir tema de exposición", Description: "Escoge el tema que quieras para tu exposición", Icon: "🎤", Cost: 3, Stock: 5, Available: true},
		{ID: "store_demo_4", Name: "Día libre de tarea", Description: "Un día sin tarea (aplica una vez)", Icon: "🎉", Cost: 5, Stock: 3, Available: true},
	}}
}

// DemoDocument is the last-resort fallback when neither the remote source nor
// a local copy is available.
func DemoDocument() *Document {
	doc := &Document{
		Meta: Meta{
			App:       "LevelUp",
			Version:   1,
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Heroes: []*Hero{
			{
				ID: "h1", Group: "2D", Name: "Eddy", Level: 3, XP: 28, XPMax: DefaultXPMax,
				WeekXP: 40, WeekXPMax: DefaultWeekXPMax,
				Stats: Stats{INT: 5, SAB: 6, CAR: 5, RES: 7, CRE: 8},
			},
			{
				ID: "h2", Group: "2D", Name: "Test", Level: 2, XP: 25, XPMax: DefaultXPMax,
				WeekXP: 0, WeekXPMax: DefaultWeekXPMax,
				Stats: Stats{INT: 4, SAB: 4, CAR: 4, RES: 4, CRE: 4},
			},
		},
	}
	return NormalizeDocument(doc)
}
