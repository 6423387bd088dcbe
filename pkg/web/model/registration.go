package model

// CreateRegistrationReq 报名提交体，由报名向导组装
type CreateRegistrationReq struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birthDate"`
	Gender       string `json:"gender"`
	BloodGroup   string `json:"bloodGroup"`
	FitnessLevel string `json:"fitnessLevel"`

	Allergies             string `json:"allergies"`
	Medications           string `json:"medications"`
	DietaryRestrictions   string `json:"dietaryRestrictions"`
	HasDisability         bool   `json:"hasDisability"`
	DisabilityDescription string `json:"disabilityDescription"`

	EmergencyContactName         string `json:"emergencyContactName"`
	EmergencyContactRelationship string `json:"emergencyContactRelationship"`
	EmergencyContactPhone        string `json:"emergencyContactPhone"`
	EmergencyContactEmail        string `json:"emergencyContactEmail"`

	Division string `json:"division"`
	District string `json:"district"`
	Upazilla string `json:"upazilla"`

	EventID    int    `json:"eventId"`
	CategoryID int    `json:"categoryId"`
	TShirtSize string `json:"tshirtSize"`
	Notes      string `json:"notes"`

	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId"`
	PaymentAmount float64 `json:"paymentAmount"`
	PaymentDate   string  `json:"paymentDate"`
}

type (
	RegistrationRes struct {
		ID        int64  `json:"id"`
		Status    string `json:"status"`
		CreatedAt string `json:"createdAt"`
	}

	CreateRegistrationRes struct {
		Success bool `json:"success"`
		Data    struct {
			Registration RegistrationRes `json:"registration"`
		} `json:"data"`
	}

	RunnerRes struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	EventSummaryRes struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Date string `json:"date"`
	}

	CategorySummaryRes struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Distance float64 `json:"distance"`
		Unit     string  `json:"unit"`
	}

	PaymentRes struct {
		ID            int64   `json:"id"`
		Amount        float64 `json:"amount"`
		Status        string  `json:"status"`
		Method        string  `json:"method"`
		TransactionID string  `json:"transactionId"`
	}

	// RegistrationDetailsRes 报名成功页展示的信息
	RegistrationDetailsRes struct {
		ID       int64              `json:"id"`
		Status   string             `json:"status"`
		Date     string             `json:"date"`
		Runner   RunnerRes          `json:"runner"`
		Event    EventSummaryRes    `json:"event"`
		Category CategorySummaryRes `json:"category"`
		Payment  PaymentRes         `json:"payment"`
	}
)
