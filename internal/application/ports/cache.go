package ports

import "context"

// CatalogCache define el puerto de salida para la caché de lecturas del catálogo de la tienda.
// Cualquier adaptador (Redis, no-op) debe implementar esta interfaz.
// Un error de caché nunca debe romper la operación: los llamadores lo registran y siguen.
type CatalogCache interface {
	// Get carga en dst el valor guardado en key. found=false si no existe o expiró.
	// slot es la entrada de key en la versión del catálogo vigente al leer; tras un
	// fallo, el valor leído de la base se guarda con Set en ese mismo slot.
	Get(ctx context.Context, key string, dst any) (slot string, found bool, err error)
	// Set guarda value en slot. Si hubo una invalidación desde el Get, slot ya
	// pertenece a una versión descartada y el valor nunca se lee.
	Set(ctx context.Context, slot string, value any) error
	// Invalidate descarta todas las entradas del catálogo (stock, precios o combos cambiaron).
	Invalidate(ctx context.Context) error
}
