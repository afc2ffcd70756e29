package record

// ItemSeparator joins the "title xQty" pairs of an order's item cell.
const ItemSeparator = "; "

// Fields shared by the tables below.
var (
	ItemTitle = Field{Name: "title", Chain: []Resolver{Key("title"), Key("titulo"), Key("nombre"), Key("name")}}
	ItemQty   = Field{Name: "qty", Kind: KindNumber, Chain: []Resolver{Key("qty"), Key("cantidad"), Key("quantity")}, Default: float64(1)}
	ItemPrice = Field{Name: "price", Kind: KindNumber, Chain: []Resolver{Key("price"), Key("precio"), Key("total"), Key("monto")}, Default: float64(0)}

	CustomerName = Field{
		Name: "cliente",
		Chain: []Resolver{
			StringKey("cliente"),
			Joined(" ", "cliente.nombre", "cliente.apellido"),
			StringKey("nombre"),
			StringKey("usuario"),
		},
		Default: "",
	}
	CustomerEmail = Field{
		Name:    "email_cliente",
		Chain:   []Resolver{Key("cliente.correo"), Key("cliente.email"), Key("correo"), Key("email")},
		Default: "",
	}
	OrderTotal = Field{Name: "total", Kind: KindNumber, Chain: []Resolver{Key("total"), Key("monto")}, Default: float64(0)}
	OrderDate  = Field{Name: "fecha", Chain: []Resolver{Key("fecha"), Key("date"), Key("createdAt"), Key("created_at")}, Default: ""}
)

// Orders: id, cliente, email_cliente, total, fecha, items
var Orders = Schema{
	Kind: "ordenes",
	Fields: []Field{
		{Name: "id", Chain: []Resolver{Key("id")}, Default: ""},
		CustomerName,
		CustomerEmail,
		OrderTotal,
		OrderDate,
		{Name: "items", Chain: []Resolver{Items(ItemTitle, ItemQty, ItemSeparator, "productos", "items")}, Default: ""},
	},
}

// Products: id, titulo, descripcion, precio, categoria, stock.
// categoria stays empty: products carry no category yet.
var Products = Schema{
	Kind: "productos",
	Fields: []Field{
		{Name: "id", Chain: []Resolver{Key("id")}, Default: ""},
		{Name: "titulo", Chain: []Resolver{Key("title"), Key("titulo"), Key("nombre"), Key("name")}, Default: ""},
		{Name: "descripcion", Chain: []Resolver{Key("description"), Key("descripcion")}, Default: ""},
		{Name: "precio", Kind: KindNumber, Chain: []Resolver{Key("price"), Key("precio")}, Default: ""},
		{Name: "categoria", Default: ""},
		{Name: "stock", Kind: KindNumber, Chain: []Resolver{Key("stock"), Key("stockDisponible"), Key("inventario")}, Default: ""},
	},
}

// Users: id, nombre, email, telefono, region, comuna, cantidad_compras, total_gastado
var Users = Schema{
	Kind: "usuarios",
	Fields: []Field{
		{Name: "id", Chain: []Resolver{Key("id")}, Default: ""},
		{Name: "nombre", Chain: []Resolver{Joined(" ", "nombre", "apellido"), Key("name"), Key("usuario")}, Default: ""},
		{Name: "email", Chain: []Resolver{Key("email"), Key("correo")}, Default: ""},
		{Name: "telefono", Chain: []Resolver{Key("telefono"), Key("phone"), Key("fono")}, Default: ""},
		{Name: "region", Chain: []Resolver{Key("region")}, Default: ""},
		{Name: "comuna", Chain: []Resolver{Key("comuna")}, Default: ""},
		{Name: "cantidad_compras", Kind: KindNumber, Chain: []Resolver{Count("compras"), Key("cantidadCompras")}, Default: float64(0)},
		{Name: "total_gastado", Kind: KindNumber, Chain: []Resolver{Sum("compras", ItemPrice), Key("totalGastado")}, Default: float64(0)},
	},
}

// MessageDate is when a contact message was sent.
var MessageDate = Field{Name: "fecha", Chain: []Resolver{Key("fecha"), Key("date"), Key("createdAt"), Key("created_at")}, Default: ""}

// Contacts: nombre, email, texto, fecha
var Contacts = Schema{
	Kind: "contactos",
	Fields: []Field{
		{Name: "nombre", Chain: []Resolver{Joined(" ", "nombre", "apellido"), Key("name"), Key("usuario")}, Default: ""},
		{Name: "email", Chain: []Resolver{Key("email"), Key("correo")}, Default: ""},
		{Name: "texto", Chain: []Resolver{Key("texto"), Key("mensaje"), Key("message")}, Default: ""},
		MessageDate,
	},
}
