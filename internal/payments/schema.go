package payments

import "github.com/Nikias-Tacain/dealdress-page/internal/domain"

// Схемы запросов и ответов процессинга. Каждое потребляемое поле описано явно:
// динамических карт «что пришлёт процессинг» в коде нет, правила умолчаний
// задаются типами (отсутствующее поле — нулевое значение).

type preferenceCreateRequest struct {
	Items               []preferenceItem   `json:"items"`
	Payer               preferencePayer    `json:"payer"`
	Metadata            preferenceMetadata `json:"metadata"`
	ExternalReference   string             `json:"external_reference,omitempty"`
	BackURLs            preferenceBackURLs `json:"back_urls"`
	AutoReturn          string             `json:"auto_return,omitempty"`
	StatementDescriptor string             `json:"statement_descriptor,omitempty"`
}

type preferenceItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	CurrencyID string `json:"currency_id"`
	PictureURL string `json:"picture_url,omitempty"`
}

type preferencePayer struct {
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Phone   preferencePhone     `json:"phone"`
	Address preferencePayerAddr `json:"address"`
}

type preferencePhone struct {
	Number string `json:"number"`
}

type preferencePayerAddr struct {
	StreetName string `json:"street_name"`
}

func newPreferencePayer(b domain.Buyer) preferencePayer {
	return preferencePayer{
		Name:    b.Name,
		Email:   b.Email,
		Phone:   preferencePhone{Number: b.Phone},
		Address: preferencePayerAddr{StreetName: b.Address},
	}
}

// preferenceMetadata — единственный источник правды для реконсиляции:
// черновик заказа хранится у процессинга между созданием намерения и оплатой.
type preferenceMetadata struct {
	OrderDraft *domain.OrderDraft `json:"order_draft,omitempty"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type preferenceCreateResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type preferenceGetResponse struct {
	ID       string             `json:"id"`
	Metadata preferenceMetadata `json:"metadata"`
}

type paymentGetResponse struct {
	Status            string             `json:"status"`
	StatusDetail      string             `json:"status_detail"`
	PaymentMethod     paymentMethodInfo  `json:"payment_method"`
	PaymentTypeID     string             `json:"payment_type_id"`
	TransactionAmount float64            `json:"transaction_amount"`
	Metadata          preferenceMetadata `json:"metadata"`
}

type paymentMethodInfo struct {
	Type string `json:"type"`
}

func (r paymentGetResponse) toPaymentInfo(paymentID string) domain.PaymentInfo {
	return domain.PaymentInfo{
		ID:            paymentID,
		Status:        r.Status,
		StatusDetail:  r.StatusDetail,
		PaymentMethod: r.PaymentMethod.Type,
		PaymentType:   r.PaymentTypeID,
		Amount:        int64(r.TransactionAmount),
		Draft:         r.Metadata.OrderDraft,
	}
}
