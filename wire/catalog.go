package wire

// UserVO is a back-office account row.
type UserVO struct {
	ID            ID     `json:"id"`
	UserName      string `json:"userName"`
	NickName      string `json:"nickName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DeptID        ID     `json:"deptId"`
	JobID         ID     `json:"jobId"`
	Sex           int8   `json:"sex"`
	ValidStatus   bool   `json:"validStatus"`
	AvatarID      ID     `json:"avatarId"`
	CreateTime    string `json:"createTime"`
	LastLoginTime string `json:"lastLoginTime"`
	LastLoginCity string `json:"lastLoginCity"`
}

// UserQuery filters the user cursor search.
type UserQuery struct {
	UserName    string `json:"userName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	ValidStatus *bool  `json:"validStatus,omitempty"`
	DeptID      ID     `json:"deptId,omitempty"`
	CursorQuery
}

// UserCreate is the payload for creating an account.
type UserCreate struct {
	UserName    string `json:"userName"`
	Password    string `json:"password"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DeptID      ID     `json:"deptId,omitempty"`
	JobID       ID     `json:"jobId,omitempty"`
	NickName    string `json:"nickName,omitempty"`
	Sex         int8   `json:"sex,omitempty"`
	ValidStatus bool   `json:"validStatus"`
	AvatarID    ID     `json:"avatarId,omitempty"`
}

// UserUpdate is the payload for updating an account.
type UserUpdate struct {
	ID          ID     `json:"id"`
	NickName    string `json:"nickName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DeptID      ID     `json:"deptId,omitempty"`
	JobID       ID     `json:"jobId,omitempty"`
	Sex         int8   `json:"sex,omitempty"`
	ValidStatus *bool  `json:"validStatus,omitempty"`
	AvatarID    ID     `json:"avatarId,omitempty"`
}

// ProductVO is a catalog product row. Version is the optimistic-concurrency
// counter: updates must echo the version they read, a stale one gets a
// conflict back.
type ProductVO struct {
	ID             ID     `json:"id"`
	CategoryID     ID     `json:"categoryId"`
	ProductGroupID ID     `json:"productGroupId"`
	BrandID        ID     `json:"brandId"`
	UnitID         ID     `json:"unitId"`
	Name           string `json:"name"`
	Model          string `json:"model"`
	Quantity       int    `json:"quantity"`
	RemainQuantity int    `json:"remainQuantity"`
	Price          string `json:"price"`
	CoverURL       string `json:"coverUrl"`
	CreateTime     string `json:"createTime"`
	UpdateTime     string `json:"updateTime"`
	Version        int    `json:"version"`
}

// ProductQuery filters the product cursor search.
type ProductQuery struct {
	Name           string `json:"name,omitempty"`
	Model          string `json:"model,omitempty"`
	CategoryID     ID     `json:"categoryId,omitempty"`
	BrandID        ID     `json:"brandId,omitempty"`
	ProductGroupID ID     `json:"productGroupId,omitempty"`
	CursorQuery
}

// ProductAttribute binds an attribute value to a product being created or
// updated.
type ProductAttribute struct {
	AttributeID      ID `json:"attributeId"`
	AttributeValueID ID `json:"attributeValueId"`
}

// ProductCreate is the payload for creating a product.
type ProductCreate struct {
	CategoryID    ID                 `json:"categoryId"`
	BrandID       ID                 `json:"brandId,omitempty"`
	UnitID        ID                 `json:"unitId,omitempty"`
	Name          string             `json:"name"`
	Model         string             `json:"model,omitempty"`
	Price         string             `json:"price"`
	Quantity      int                `json:"quantity"`
	CoverURL      string             `json:"coverUrl,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	SpuAttributes []ProductAttribute `json:"spuAttributes,omitempty"`
	SkuAttributes []ProductAttribute `json:"skuAttributes,omitempty"`
	Photos        []string           `json:"photos,omitempty"`
}

// ProductUpdate is the payload for PUT /product/{id}. Version must carry the
// version from the ProductVO the edit was based on.
type ProductUpdate struct {
	Version        int                `json:"version"`
	CategoryID     ID                 `json:"categoryId,omitempty"`
	BrandID        ID                 `json:"brandId,omitempty"`
	UnitID         ID                 `json:"unitId,omitempty"`
	ProductGroupID ID                 `json:"productGroupId,omitempty"`
	Name           string             `json:"name,omitempty"`
	Model          string             `json:"model,omitempty"`
	Quantity       int                `json:"quantity,omitempty"`
	RemainQuantity int                `json:"remainQuantity,omitempty"`
	Price          string             `json:"price,omitempty"`
	CoverURL       string             `json:"coverUrl,omitempty"`
	SkuAttributes  []ProductAttribute `json:"skuAttributes,omitempty"`
}

// AttributeVO is a product attribute with its audit trail.
type AttributeVO struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	CreateUserID   ID     `json:"createUserId"`
	CreateUserName string `json:"createUserName"`
	CreateTime     string `json:"createTime"`
	UpdateUserID   ID     `json:"updateUserId"`
	UpdateUserName string `json:"updateUserName"`
	UpdateTime     string `json:"updateTime"`
	Version        int    `json:"version"`
}

// AttributeCreate is the payload for creating an attribute.
type AttributeCreate struct {
	Name string `json:"name"`
}

// AttributeUpdate is the payload for renaming an attribute.
type AttributeUpdate struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// AttributeValueVO is one value of an attribute, with its audit trail.
type AttributeValueVO struct {
	ID             ID     `json:"id"`
	AttributeID    ID     `json:"attributeId"`
	AttributeName  string `json:"attributeName"`
	Value          string `json:"value"`
	Sort           int    `json:"sort"`
	CreateUserID   ID     `json:"createUserId"`
	CreateUserName string `json:"createUserName"`
	CreateTime     string `json:"createTime"`
	UpdateUserID   ID     `json:"updateUserId"`
	UpdateUserName string `json:"updateUserName"`
	UpdateTime     string `json:"updateTime"`
	Version        int    `json:"version"`
}

// AttributeValueQuery filters the attribute value cursor search.
type AttributeValueQuery struct {
	AttributeID    ID     `json:"attributeId,omitempty"`
	Value          string `json:"value,omitempty"`
	Sort           *int   `json:"sort,omitempty"`
	CreateUserID   ID     `json:"createUserId,omitempty"`
	CreateUserName string `json:"createUserName,omitempty"`
	StartTime      string `json:"startTime,omitempty"`
	EndTime        string `json:"endTime,omitempty"`
	CursorQuery
}

// AttributeValueCreate is the payload for adding a value to an attribute.
type AttributeValueCreate struct {
	AttributeID ID     `json:"attributeId"`
	Value       string `json:"value"`
	Sort        int    `json:"sort,omitempty"`
}

// AttributeValueUpdate is the payload for editing an attribute value.
type AttributeValueUpdate struct {
	ID          ID     `json:"id"`
	AttributeID ID     `json:"attributeId"`
	Value       string `json:"value"`
	Sort        int    `json:"sort,omitempty"`
}

// AttributeWithValues is one row of /attribute/allWithValues: an attribute
// and all of its live values, for building selection widgets.
type AttributeWithValues struct {
	ID     ID                 `json:"id"`
	Name   string             `json:"name"`
	Values []AttributeValueVO `json:"values"`
}

// MenuMeta is the display metadata of a menu node.
type MenuMeta struct {
	Icon    string `json:"icon"`
	NoCache bool   `json:"noCache"`
	Title   string `json:"title"`
}

// MenuTree is one node of the navigation tree returned by /menu/getMenuTree.
type MenuTree struct {
	ID          ID         `json:"id"`
	Label       string     `json:"label"`
	PID         ID         `json:"pid"`
	Sort        int        `json:"sort"`
	Icon        string     `json:"icon"`
	Path        string     `json:"path"`
	Hidden      bool       `json:"hidden"`
	Type        int        `json:"type"`
	Permission  string     `json:"permission"`
	Component   string     `json:"component"`
	Redirect    string     `json:"redirect"`
	AlwaysShow  bool       `json:"alwaysShow"`
	Meta        *MenuMeta  `json:"meta,omitempty"`
	Children    []MenuTree `json:"children,omitempty"`
	Leaf        bool       `json:"leaf"`
	SubCount    int        `json:"subCount"`
	HasChildren bool       `json:"hasChildren"`
}

// Brand is a product brand, used for selection widgets.
type Brand struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Unit is a product measurement unit.
type Unit struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// CategoryTree is one node of the product category tree.
type CategoryTree struct {
	ID       ID             `json:"id"`
	Name     string         `json:"name"`
	Children []CategoryTree `json:"children,omitempty"`
}

// FileDTO describes an uploaded file.
type FileDTO struct {
	OriginalName string `json:"originalName"`
	FileName     string `json:"fileName"`
	Path         string `json:"path"`
	DownloadURL  string `json:"downloadUrl"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
}
