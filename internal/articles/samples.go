package articles

import "context"

var samples = []Draft{
	{
		Title:     "Inauguración de la Nueva Biblioteca",
		BannerURL: "https://images.unsplash.com/photo-1521587760476-6c12a4b040da?w=800",
		Body:      "Nuestra escuela celebra la apertura de una moderna biblioteca equipada con tecnología de última generación. Los estudiantes ahora tienen acceso a miles de recursos digitales y físicos para apoyar su aprendizaje.",
	},
	{
		Title:     "Equipo de Debate Gana Torneo Regional",
		BannerURL: "https://images.unsplash.com/photo-1529070538774-1843cb3265df?w=800",
		Body:      "El equipo de debate de nuestra escuela ha logrado un triunfo histórico al ganar el torneo regional. Los estudiantes demostraron excelentes habilidades de argumentación y trabajo en equipo.",
	},
	{
		Title:     "Feria de Ciencias 2024",
		BannerURL: "https://images.unsplash.com/photo-1532094349884-543bc11b234d?w=800",
		Body:      "La feria de ciencias anual fue un gran éxito, con proyectos innovadores presentados por estudiantes de todos los grados. Desde experimentos de química hasta robots programables, la creatividad estuvo presente en cada stand.",
	},
}

// SeedSamples stores the demo articles and returns how many were saved.
func (s *Store) SeedSamples(ctx context.Context) int {
	n := 0
	for _, d := range samples {
		if s.Save(ctx, d) {
			n++
		}
	}
	return n
}
