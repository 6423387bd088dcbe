package model

type (
	CreateEventReq struct {
		Name                  string `json:"name"`
		Description           string `json:"description"`
		EventDate             string `json:"eventDate"`
		Location              string `json:"location"`
		StartTime             string `json:"startTime"`
		RegistrationOpenDate  string `json:"registrationOpenDate"`
		RegistrationCloseDate string `json:"registrationCloseDate"`
		MaxParticipants       *int   `json:"maxParticipants"`
		EventStatus           string `json:"eventStatus"`
		DisplayOrder          *int   `json:"displayOrder"`
		IsFeatured            bool   `json:"isFeatured"`
		WebsiteURL            string `json:"websiteUrl"`
	}

	CreateCategoryReq struct {
		Name            string  `json:"name"`
		Distance        float64 `json:"distance"`
		DistanceUnit    string  `json:"distanceUnit"`
		StartTime       string  `json:"startTime"`
		EntryFee        *int    `json:"entryFee"`
		MaxParticipants *int    `json:"maxParticipants"`
		AgeMin          *int    `json:"ageMin"`
		AgeMax          *int    `json:"ageMax"`
	}

	EventRes struct {
		EventID               int64  `json:"eventId"`
		Name                  string `json:"name"`
		Description           string `json:"description"`
		EventDate             string `json:"eventDate"`
		Location              string `json:"location"`
		StartTime             string `json:"startTime"`
		RegistrationOpenDate  string `json:"registrationOpenDate"`
		RegistrationCloseDate string `json:"registrationCloseDate"`
		MaxParticipants       int    `json:"maxParticipants"`
		EventStatus           string `json:"eventStatus"`
		DisplayOrder          int    `json:"displayOrder"`
		IsFeatured            bool   `json:"isFeatured"`
		WebsiteURL            string `json:"websiteUrl,omitempty"`
	}

	CategoryRes struct {
		CategoryID          int64   `json:"categoryId"`
		EventID             int64   `json:"eventId"`
		Name                string  `json:"name"`
		Distance            float64 `json:"distance"`
		Unit                string  `json:"unit"`
		StartTime           string  `json:"startTime"`
		EntryFee            int     `json:"entryFee"`
		MaxParticipants     int     `json:"maxParticipants"`
		CurrentParticipants int     `json:"currentParticipants"`
		AgeMin              int     `json:"ageMin"`
		AgeMax              int     `json:"ageMax"`
	}
)
