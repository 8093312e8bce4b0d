package domain

// Division is a top-level merchandising division from the master catalog.
type Division struct {
	DivisionID   int32  `json:"division_id"`
	DivisionCode string `json:"division_code"`
	DivisionName string `json:"division_name"`
}

// SKU is a catalog product with its full merchandising hierarchy. Products
// attached to agreements are enriched from this catalog.
type SKU struct {
	Code              string  `json:"sku"`
	Description       *string `json:"description"`
	Brand             *string `json:"brand"`
	SupplierID        *int64  `json:"supplier_id"`
	SupplierName      *string `json:"supplier_name"`
	SupplierRUC       *string `json:"supplier_ruc"`
	DivisionCode      *string `json:"division_code"`
	DivisionName      *string `json:"division_name"`
	DepartmentCode    *string `json:"department_code"`
	DepartmentName    *string `json:"department_name"`
	SubdepartmentCode *string `json:"subdepartment_code"`
	SubdepartmentName *string `json:"subdepartment_name"`
	ClassCode         *string `json:"class_code"`
	ClassName         *string `json:"class_name"`
	SubclassCode      *string `json:"subclass_code"`
	SubclassName      *string `json:"subclass_name"`
}
