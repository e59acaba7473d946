// Package translate maps module and datasource definitions to and from the backend's
// structured-interface records.
//
// Going to the wire, every data type a port declares must already exist in the backend
// catalog. Coming back, the backend returns two views of a module's ports, an abstract
// interface and a structured one; they are joined by port name, so either side may carry
// ports the other lacks.
package translate
