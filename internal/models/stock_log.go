package models

import "time"

type StockReason string

const (
	ReasonPurchase    StockReason = "purchase"     // tedarikçiden alış girişi
	ReasonReturnIn    StockReason = "return_in"    // bayiden iade girişi
	ReasonOrderPack   StockReason = "order_pack"   // sipariş kalemi için düşüş/iade (aktif düzenleme dahil)
	ReasonOrderCancel StockReason = "order_cancel" // sipariş iptalinde stok iadesi
	ReasonDefectIn    StockReason = "defect_in"    // sağlamdan defoluya sınıf değişimi
	ReasonDefectOut   StockReason = "defect_out"   // defolu imha/çıkış
	ReasonImport      StockReason = "import"       // Excel ile toplu açılış/aktarım
)

// StockLog: değişmez stok hareketi kaydı (append-only). Bir ürünün tüm
// delta'larının toplamı, ürünün güncel sayaçlarına eşit olmalıdır.
type StockLog struct {
	ID uint      `gorm:"primaryKey" json:"id"`
	Ts time.Time `gorm:"index;not null" json:"ts"`

	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"-"`

	DeltaOk     int `gorm:"not null;default:0" json:"delta_ok"`
	DeltaDefect int `gorm:"not null;default:0" json:"delta_defect"`

	Reason StockReason `gorm:"size:20;not null;index" json:"reason"`

	// Kaynak kayda serbest metin referans (sipariş id, giriş id vb.)
	RefID string `gorm:"size:50;index" json:"ref_id"`

	CreatedAt time.Time `json:"created_at"`
}
