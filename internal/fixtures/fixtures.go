// Package fixtures holds the catalogs every store is seeded with at startup.
package fixtures

import "github.com/robertarktes/campus-reservations/internal/domain"

// EquipmentCategories are the categories the add-to-inventory form offers.
var EquipmentCategories = []string{"Cámaras", "Audio", "Iluminación", "Soportes", "Drones", "Accesorios"}

// ClassroomCategories are the categories classrooms are filed under.
var ClassroomCategories = []string{"Edición", "Audio", "Proyección", "Fotografía", "Reuniones"}

const unsplash = "https://images.unsplash.com/"

func Equipment() []domain.Item {
	return []domain.Item{
		{
			ID: 1, Name: "Cámara Canon EOS R5", Category: "Cámaras",
			Description: "Cámara mirrorless profesional con resolución 8K",
			Image:       unsplash + "photo-1502920917128-1aa500764cbd?auto=format&fit=crop&w=1000&q=80",
			Quantity:    3, Available: true,
		},
		{
			ID: 2, Name: "Trípode Manfrotto", Category: "Soportes",
			Description: "Trípode profesional para cámaras pesadas",
			Image:       unsplash + "photo-1554048612-7c6c62b32f0f?auto=format&fit=crop&w=1000&q=80",
			Quantity:    5, Available: true,
		},
		{
			ID: 3, Name: "Micrófono Rode NT1", Category: "Audio",
			Description: "Micrófono de condensador para estudio",
			Image:       unsplash + "photo-1590602847861-f357a9332c7f?auto=format&fit=crop&w=1000&q=80",
			Quantity:    2, Available: true,
		},
		{
			ID: 4, Name: "Luz LED Profesional", Category: "Iluminación",
			Description: "Kit de iluminación LED para video",
			Image:       unsplash + "photo-1571019613454-1cb2f99b2d8b?auto=format&fit=crop&w=1000&q=80",
			Quantity:    4, Available: true,
		},
		{
			ID: 5, Name: "Grabadora Zoom H6", Category: "Audio",
			Description: "Grabadora de audio portátil multipista",
			Image:       unsplash + "photo-1571019614242-c5e5d5e3b5b5?auto=format&fit=crop&w=1000&q=80",
			Quantity:    1, Available: true,
		},
		{
			ID: 6, Name: "Drone DJI Mavic 3", Category: "Drones",
			Description: "Drone profesional con cámara 4K",
			Image:       unsplash + "photo-1578305698944-874b04d2f4c9?auto=format&fit=crop&w=1000&q=80",
			Quantity:    2, Available: false,
		},
	}
}

func Classrooms() []domain.Item {
	return []domain.Item{
		{
			ID: 1, Name: "Sala de Edición 1", Category: "Edición", Capacity: 8,
			Equipment:   []string{"iMac Pro", "Adobe Creative Cloud", "Tabletas gráficas"},
			Description: "Sala especializada para edición de video y diseño gráfico",
			Image:       unsplash + "photo-1581291518857-4e27b48ff24e?auto=format&fit=crop&w=1000&q=80",
			Location:    "Edificio A, Piso 3", Quantity: 1, Available: true,
		},
		{
			ID: 2, Name: "Estudio de Grabación", Category: "Audio", Capacity: 6,
			Equipment:   []string{"Micrófonos profesionales", "Mixer", "Aislamiento acústico"},
			Description: "Estudio profesional para grabación de audio y podcast",
			Image:       unsplash + "photo-1598488035139-bdbb2231ce04?auto=format&fit=crop&w=1000&q=80",
			Location:    "Edificio B, Piso 2", Quantity: 1, Available: true,
		},
		{
			ID: 3, Name: "Sala de Proyección", Category: "Proyección", Capacity: 20,
			Equipment:   []string{"Proyector 4K", "Sistema de sonido 7.1", `Pantalla 120"`},
			Description: "Sala de cine para proyección y análisis de material audiovisual",
			Image:       unsplash + "photo-1492684223066-81342ee5ff30?auto=format&fit=crop&w=1000&q=80",
			Location:    "Edificio C, Piso 1", Quantity: 1, Available: true,
		},
		{
			ID: 4, Name: "Laboratorio de Fotografía", Category: "Fotografía", Capacity: 10,
			Equipment:   []string{"Cámaras DSLR", "Estudio de luces", "Fondos profesionales"},
			Description: "Estudio fotográfico profesional con equipo especializado",
			Image:       unsplash + "photo-1452587925148-ce544e77e70d?auto=format&fit=crop&w=1000&q=80",
			Location:    "Edificio A, Piso 2", Quantity: 1, Available: true,
		},
		{
			ID: 5, Name: "Sala de Reuniones Audiovisual", Category: "Reuniones", Capacity: 12,
			Equipment:   []string{"Pantalla táctil", "Sistema de videoconferencia", "Pizarra digital"},
			Description: "Sala equipada para presentaciones y reuniones colaborativas",
			Image:       unsplash + "photo-1560448204-e02f11c3d0e2?auto=format&fit=crop&w=1000&q=80",
			Location:    "Edificio B, Piso 1", Quantity: 1, Available: true,
		},
		{
			ID: 6, Name: "Sala de Postproducción", Category: "Edición", Capacity: 6,
			Equipment:   []string{"Workstations HP Z8", "Monitores 4K", "Sistema de almacenamiento NAS"},
			Description: "Sala avanzada para postproducción y efectos visuales",
			Image:       unsplash + "photo-1593508512255-86ab42a8e620?auto=format&fit=crop&w=1000&q=80",
			Location:    "Edificio A, Piso 3", Quantity: 1, Available: true,
		},
	}
}
