package repository

import (
	"time"

	"conselhoreal/internal/model"
)

// SeedCredential is a plain-text credential of the sample dataset. It is hashed when loaded.
type SeedCredential struct {
	Email    string
	Password string
}

// Dataset is the content a repository starts from in local mode, and what cmd/seed
// writes into an empty backend.
type Dataset struct {
	Users             []model.User
	Credentials       []SeedCredential
	Events            []model.Event
	Announcements     []model.Announcement
	PrayerRequests    []model.PrayerRequest
	GalleryImages     []model.GalleryImage
	DiaryEntries      []model.DiaryEntry
	Recados           []model.Recado
	MemberEntities    []model.MemberEntity
	SpiritualEntities []model.SpiritualEntity
	LoreEntries       []model.LoreEntry
}

// SampleDataset returns the house's sample content with dates relative to now.
func SampleDataset(now time.Time) Dataset {
	days := func(n int) time.Time { return now.AddDate(0, 0, n) }
	ptr := func(t time.Time) *time.Time { return &t }

	return Dataset{
		Users: []model.User{
			{ID: 1, Name: "Henrique Versuri", Email: AdminEmail, Role: model.RoleAdm},
			{ID: 2, Name: "Membro Teste", Email: "membro@conselhoreal.com", Role: model.RoleMembro, MemberSince: "2022-01-15", Allergies: "Amendoim"},
			{ID: 3, Name: "Joana Silva", Email: "joana@email.com", Role: model.RoleMembro, MemberSince: "2021-11-20"},
		},
		Credentials: []SeedCredential{
			{Email: AdminEmail, Password: "reidas7ebrilhantina"},
			{Email: "membro@conselhoreal.com", Password: "visitante123"},
		},
		Events: []model.Event{
			{ID: 1, Title: "Gira de Exu", Type: model.EventGira, Date: days(5), Capacity: 50, Attendees: 45},
			{ID: 2, Title: "Atendimento com Malandros", Type: model.EventAtendimento, Date: days(12), Capacity: 30, Attendees: 30},
			{ID: 3, Title: "Estudo de Doutrina", Type: model.EventEstudo, Date: days(19), Capacity: 25, Attendees: 15},
			{ID: 4, Title: "Gira de Pombagira", Type: model.EventGira, Date: days(26), Capacity: 50, Attendees: 20},
		},
		Announcements: []model.Announcement{
			{ID: 1, Title: "Vestimenta para Giras de Exu", Content: "Lembramos a todos os médiuns e consulentes que a vestimenta para as giras de Exu é obrigatoriamente preta ou vermelha.", Date: "01/07/2024"},
			{ID: 2, Title: "Campanha do Agasalho", Content: "Estamos arrecadando agasalhos e cobertores para doação. As entregas podem ser feitas na secretaria.", Date: "28/06/2024"},
		},
		PrayerRequests: []model.PrayerRequest{
			{ID: 1, Initials: "J.S.", Request: "Peço por caminhos abertos no meu trabalho e proteção para minha família.", Timestamp: now},
			{ID: 2, Initials: "M.A.P.", Request: "Agradeço pela saúde recuperada e peço que a luz continue a me guiar.", Timestamp: now.Add(-time.Minute)},
			{ID: 3, Initials: "C.L.", Request: "Forças para superar um momento difícil e clareza para tomar decisões importantes.", Timestamp: now.Add(-2 * time.Minute)},
		},
		GalleryImages: []model.GalleryImage{
			{ID: 1, Src: "https://picsum.photos/seed/terreiro1/800/600", Alt: "Fachada do terreiro à noite", Caption: "Fachada do Conselho Real, iluminada para uma noite de trabalhos.", Category: model.CategoryTerreiro},
			{ID: 2, Src: "https://picsum.photos/seed/evento1/800/600", Alt: "Médiuns reunidos em uma gira", Caption: "Corrente mediúnica formada durante Gira de Caboclos.", Category: model.CategoryEventos},
			{ID: 3, Src: "https://picsum.photos/seed/simbolo1/800/600", Alt: "Ponto riscado de Exu Rei", Caption: "Ponto riscado de Exu Rei das Sete Encruzilhadas, firmado para proteção.", Category: model.CategorySimbolos},
			{ID: 4, Src: "https://picsum.photos/seed/terreiro2/800/600", Alt: "Congá do terreiro", Caption: "Nosso congá, o altar sagrado onde depositamos nossa fé e pedidos.", Category: model.CategoryTerreiro},
			{ID: 5, Src: "https://picsum.photos/seed/evento2/800/600", Alt: "Atendimento com Preto Velho", Caption: "Momento de sabedoria e conselho durante atendimento de Preto Velho.", Category: model.CategoryEventos},
			{ID: 6, Src: "https://picsum.photos/seed/simbolo2/800/600", Alt: "Guia de Zé da Brilhantina", Caption: "Guia representativa da entidade Mestre Zé da Brilhantina.", Category: model.CategorySimbolos},
			{ID: 7, Src: "https://picsum.photos/seed/evento3/800/600", Alt: "Festa de Cosme e Damião", Caption: "Distribuição de doces e alegria na celebração de Crianças.", Category: model.CategoryEventos},
			{ID: 8, Src: "https://picsum.photos/seed/terreiro3/800/600", Alt: "Jardim de ervas do terreiro", Caption: "Nosso jardim, onde cultivamos as ervas sagradas para banhos e defumações.", Category: model.CategoryTerreiro},
		},
		DiaryEntries: []model.DiaryEntry{
			{ID: 1, UserID: 2, Title: "Sonho com o Tridente", Content: "Sonhei que estava em uma encruzilhada e via um tridente brilhando em dourado. Senti uma forte presença e proteção.", Tags: []string{"sonho", "proteção"}, CreatedAt: days(-2), DueDate: ptr(days(-1)), Attachment: &model.Attachment{Name: "esboco_sonho.jpg", Size: 1024 * 500}},
			{ID: 2, UserID: 2, Title: "Estudo sobre a Linha dos Malandros", Content: "Li sobre a sabedoria e a astúcia de Zé Pelintra. Entendi melhor a importância da alegria e da ginga para quebrar demandas.", Tags: []string{"estudo", "malandragem"}, CreatedAt: days(-1), DueDate: ptr(days(5))},
			{ID: 3, UserID: 1, Title: "Observações da Gira", Content: "A energia da corrente estava muito forte hoje. O trabalho de limpeza foi intenso e necessário.", Tags: []string{"gira", "admin"}, CreatedAt: now},
		},
		Recados: []model.Recado{
			{ID: 1, UserID: 2, From: model.DefaultRecadoSender, Message: "Lembrança da vestimenta para a Gira de Sábado.", Date: now, Read: false},
			{ID: 2, UserID: 2, From: model.DefaultRecadoSender, Message: "Sua presença é solicitada na reunião de cambones.", Date: days(-1), Read: true},
			{ID: 3, UserID: 3, From: model.DefaultRecadoSender, Message: "Por favor, confirme sua presença no estudo de doutrina.", Date: now, Read: false},
		},
		MemberEntities: []model.MemberEntity{
			{ID: 1, UserID: 2, Name: "Tranca Ruas das Almas", Line: "Exu", History: "Um dos chefes de falange da linha de Exus. Trabalha na vibração das Almas, é um guardião que atua no controle do instinto e da razão dos seres.", Curiosities: "Gosta de charutos fortes, uísque e sua capa preta com forro vermelho."},
			{ID: 2, UserID: 2, Name: "Maria Padilha das 7 Encruzilhadas", Line: "Pombagira", History: "Rainha da encruzilhada, uma entidade de grande força e sabedoria. Ajuda em questões de amor, prosperidade e quebra de feitiços.", Curiosities: "Sua cor é o vermelho e preto, aprecia rosas vermelhas e champanhe."},
			{ID: 3, UserID: 3, Name: "Caboclo Pena Branca", Line: "Caboclos", History: "Vem da linha de Oxalá, trazendo paz, cura e sabedoria. É um grande conhecedor das ervas e rituais de limpeza espiritual.", Curiosities: "Trabalha com ervas de cura, especialmente o alecrim e a arruda."},
		},
		SpiritualEntities: []model.SpiritualEntity{
			{ID: 1, Name: "Exu Rei das Sete Encruzilhadas", Line: "Exu", Description: "Rei da Lira e Senhor dos Sete Reinos, guardião dos caminhos e da comunicação entre os mundos. Trabalha com a ordem, a lei e a justiça.", DescriptionHistory: []model.HistoryEntry{}},
			{ID: 2, Name: "Mestre Zé da Brilhantina", Line: "Malandragem", Description: "Malandro de luz, que traz a alegria, a ginga e a sabedoria das ruas para quebrar demandas e abrir caminhos. Trabalha com a cura, a prosperidade e a proteção.", DescriptionHistory: []model.HistoryEntry{}},
		},
		LoreEntries: []model.LoreEntry{
			{ID: 1, Title: "A Fundação do Conselho Real", Content: "O Conselho Real foi fundado em uma noite de lua cheia, sob a orientação direta de Exu Rei, com a missão de ser um farol de caridade e firmeza na Umbanda.", RelatedEntities: []int64{1, 2}},
			{ID: 2, Title: "A Importância da Firmeza", Content: "A firmeza é um dos pilares de nossa casa. É a disciplina do médium, a seriedade no trabalho e o respeito às entidades que garantem a segurança e a eficácia dos rituais.", RelatedEntities: []int64{}},
		},
	}
}
